package sqldb

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
)

// Códigos do MySQL que indicam banco inacessível ou credenciais/base inválidas
var mysqlConnectivityCodes = map[uint16]struct{}{
	1040: {}, // Too many connections
	1045: {}, // Access denied
	1049: {}, // Unknown database
	1053: {}, // Server shutdown in progress
	1129: {}, // Host blocked
	1130: {}, // Host not allowed
}

// Códigos do MySQL para valores ou colunas incompatíveis com a tabela
var mysqlSchemaMismatchCodes = map[uint16]struct{}{
	1054: {}, // Unknown column
	1060: {}, // Duplicate column name
	1136: {}, // Column count doesn't match value count
	1264: {}, // Out of range value
	1265: {}, // Data truncated
	1292: {}, // Incorrect value
	1366: {}, // Incorrect integer/decimal value
	1406: {}, // Data too long
}

// Classify converte erros do driver nos tipos de erro do pipeline
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var etlErr *domain.ETLError
	if errors.As(err, &etlErr) {
		return err
	}

	switch {
	case IsConnectivity(err):
		return domain.NewETLError(domain.ErrConnectivity, op, err, "")
	case IsSchemaMismatch(err):
		return domain.NewETLError(domain.ErrSchemaMismatch, op, err, "")
	}

	return fmt.Errorf("%s: %w", op, err)
}

func IsConnectivity(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		_, ok := mysqlConnectivityCodes[myErr.Number]
		return ok
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "28", "3D", "57":
			return true
		}
	}

	return false
}

func IsSchemaMismatch(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		_, ok := mysqlSchemaMismatchCodes[myErr.Number]
		return ok
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code.Class() == "22" {
			return true
		}
		switch pqErr.Code {
		case "42701", "42703", "42804":
			return true
		}
	}

	return false
}
