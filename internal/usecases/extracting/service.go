package extracting

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/jszwec/csvutil"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
	"github.com/vfg2006/campaign-kpi-etl/pkg/log"
)

// Extractor lê o arquivo de métricas de anúncios
type Extractor interface {
	Read(ctx context.Context, path string) (*Result, error)
}

// Result é a tabela lida em memória
type Result struct {
	Records []domain.AdRecord
	// ExtraColumns são as colunas do cabeçalho fora das obrigatórias, na ordem do arquivo
	ExtraColumns []string
}

type CSVReader struct{}

func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

// Read abre o arquivo e decodifica todas as linhas
func (r *CSVReader) Read(ctx context.Context, path string) (*Result, error) {
	logger := log.ForContext(ctx).WithField("input_path", path)

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewETLError(domain.ErrFileNotFound, "read", err, path)
		}
		return nil, domain.NewETLError(domain.ErrParse, "read", pkgerrors.Wrap(err, "erro ao abrir arquivo"), path)
	}
	defer file.Close()

	result, err := Decode(file)
	if err != nil {
		return nil, err
	}

	logger.WithFields(log.Fields{
		"rows":          len(result.Records),
		"extra_columns": result.ExtraColumns,
	}).Info("Arquivo de entrada lido com sucesso")

	return result, nil
}

// Decode lê CSV com cabeçalho a partir de qualquer io.Reader
func Decode(in io.Reader) (*Result, error) {
	csvReader := csv.NewReader(in)
	csvReader.TrimLeadingSpace = true

	dec, err := csvutil.NewDecoder(csvReader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.NewETLError(domain.ErrParse, "read", err, "arquivo vazio, cabeçalho ausente")
		}
		return nil, domain.NewETLError(domain.ErrParse, "read", pkgerrors.Wrap(err, "erro ao ler cabeçalho"), "")
	}

	header := dec.Header()
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	extraColumns, err := extraColumnsOf(header)
	if err != nil {
		return nil, err
	}

	records := make([]domain.AdRecord, 0)
	line := 1
	for {
		line++

		var record domain.AdRecord
		err := dec.Decode(&record)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.NewETLErrorf(domain.ErrParse, "read", err, "linha %d", line)
		}
		if err := checkMoneyScale(record); err != nil {
			return nil, domain.NewETLErrorf(domain.ErrParse, "read", err, "linha %d", line)
		}

		if len(extraColumns) > 0 {
			raw := dec.Record()
			record.Extras = make(map[string]string, len(extraColumns))
			for _, idx := range dec.Unused() {
				record.Extras[header[idx]] = raw[idx]
			}
		}

		records = append(records, record)
	}

	return &Result{
		Records:      records,
		ExtraColumns: extraColumns,
	}, nil
}

// validateHeader garante as colunas obrigatórias antes de decodificar qualquer linha
func validateHeader(header []string) error {
	present := make(map[string]int, len(header))
	for _, column := range header {
		present[column]++
	}

	missing := make([]string, 0)
	for _, column := range domain.RequiredColumns {
		if present[column] == 0 {
			missing = append(missing, column)
		}
	}

	if len(missing) > 0 {
		return domain.NewETLError(domain.ErrSchemaValidation, "read", nil, strings.Join(missing, ", "))
	}

	for column, count := range present {
		if count > 1 {
			return domain.NewETLErrorf(domain.ErrParse, "read", nil, "coluna duplicada no cabeçalho: %s", column)
		}
	}

	return nil
}

// extraColumnsOf devolve as colunas de passagem. Como viram colunas da tabela fato,
// não podem repetir (sem diferenciar maiúsculas, como no MySQL) uma coluna obrigatória ou de KPI.
func extraColumnsOf(header []string) ([]string, error) {
	required := make(map[string]struct{}, len(domain.RequiredColumns))
	for _, column := range domain.RequiredColumns {
		required[column] = struct{}{}
	}

	taken := make(map[string]string, len(domain.RequiredColumns)+len(domain.KPIColumns)+len(header))
	for _, column := range append(slices.Clone(domain.RequiredColumns), domain.KPIColumns...) {
		taken[strings.ToLower(column)] = column
	}

	extras := make([]string, 0)
	for _, column := range header {
		if _, ok := required[column]; ok {
			continue
		}

		key := strings.ToLower(column)
		if existing, ok := taken[key]; ok {
			return nil, domain.NewETLErrorf(domain.ErrSchemaValidation, "read", nil,
				"coluna extra %q conflita com a coluna %q da tabela fato", column, existing)
		}
		taken[key] = column
		extras = append(extras, column)
	}
	return extras, nil
}

// checkMoneyScale recusa valores que a tabela fato arredondaria ao gravar
func checkMoneyScale(record domain.AdRecord) error {
	money := []struct {
		column string
		value  decimal.Decimal
	}{
		{domain.ColumnSpend, record.Spend},
		{domain.ColumnRevenue, record.Revenue},
	}

	for _, m := range money {
		if !m.value.Equal(m.value.Truncate(domain.MoneyScale)) {
			return fmt.Errorf("%s com mais de %d casas decimais: %s", m.column, domain.MoneyScale, m.value)
		}
	}
	return nil
}
