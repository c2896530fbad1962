package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Colunas obrigatórias do arquivo de entrada, na ordem em que são gravadas na tabela fato
const (
	ColumnAdID        = "ad_id"
	ColumnCampaignID  = "campaign_id"
	ColumnImpressions = "impressions"
	ColumnClicks      = "clicks"
	ColumnSpend       = "spend"
	ColumnRevenue     = "revenue"
	ColumnDate        = "date"

	ColumnCTRPct = "ctr_pct"
	ColumnCPC    = "cpc"
	ColumnCPM    = "cpm"
	ColumnROI    = "roi"
)

var RequiredColumns = []string{
	ColumnAdID,
	ColumnCampaignID,
	ColumnImpressions,
	ColumnClicks,
	ColumnSpend,
	ColumnRevenue,
	ColumnDate,
}

var KPIColumns = []string{ColumnCTRPct, ColumnCPC, ColumnCPM, ColumnROI}

// MoneyScale é o número máximo de casas decimais de spend/revenue; a tabela fato guarda exatamente essa escala
const MoneyScale = 6

// Date é uma data ISO (YYYY-MM-DD) sem hora
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("data inválida %q, esperado YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

func (d *Date) UnmarshalText(data []byte) error {
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	return d.UnmarshalText([]byte(strings.Trim(string(data), `"`)))
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// Value grava a data como string ISO, aceita tanto por DATE do MySQL quanto do Postgres
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case []byte:
		return d.UnmarshalText(v)
	case string:
		return d.UnmarshalText([]byte(v))
	case nil:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("tipo não suportado para Date: %T", src)
}

// AdRecord representa uma linha do arquivo de métricas de campanhas
type AdRecord struct {
	AdID        string          `csv:"ad_id" json:"ad_id"`
	CampaignID  string          `csv:"campaign_id" json:"campaign_id"`
	Impressions int64           `csv:"impressions" json:"impressions"`
	Clicks      int64           `csv:"clicks" json:"clicks"`
	Spend       decimal.Decimal `csv:"spend" json:"spend"`
	Revenue     decimal.Decimal `csv:"revenue" json:"revenue"`
	Date        Date            `csv:"date" json:"date"`

	// Extras guarda colunas não reconhecidas, repassadas sem alteração
	Extras map[string]string `csv:"-" json:"extras,omitempty"`
}

// KPIs são as métricas derivadas de uma linha ou de um agregado.
// Um valor inválido (Valid=false) indica denominador zero e é distinto de zero calculado.
type KPIs struct {
	CTRPct decimal.NullDecimal `json:"ctr_pct" db:"ctr_pct"`
	CPC    decimal.NullDecimal `json:"cpc" db:"cpc"`
	CPM    decimal.NullDecimal `json:"cpm" db:"cpm"`
	ROI    decimal.NullDecimal `json:"roi" db:"roi"`
}

// NullCount retorna quantos KPIs ficaram nulos por proteção de divisão
func (k KPIs) NullCount() int {
	count := 0
	for _, v := range []decimal.NullDecimal{k.CTRPct, k.CPC, k.CPM, k.ROI} {
		if !v.Valid {
			count++
		}
	}
	return count
}

// EnrichedAdRecord é o AdRecord acrescido dos quatro KPIs
type EnrichedAdRecord struct {
	AdRecord
	KPIs
}
