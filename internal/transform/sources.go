package transform

import (
	"context"
	"regexp"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	rawListingsPrefix = "raw_listings_"
	rawCalendarPrefix = "raw_calendar_"
)

var cityCodeRegexp = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Catalog informa quais tabelas existem no banco
type Catalog interface {
	TableExists(ctx context.Context, table string) (bool, error)
}

// City é uma cidade configurada e as tabelas brutas de onde seus dados vêm
type City struct {
	Code string
}

// Label é o rótulo gravado na coluna city das tabelas derivadas
func (c City) Label() string {
	return strings.ToUpper(c.Code)
}

func (c City) ListingsTable() string {
	return rawListingsPrefix + c.Code
}

func (c City) CalendarTable() string {
	return rawCalendarPrefix + c.Code
}

// ParseCities valida os códigos de cidade usados para montar nomes de tabela
func ParseCities(codes []string) ([]City, error) {
	if len(codes) == 0 {
		return nil, ErrNoCities
	}

	cities := make([]City, 0, len(codes))
	for _, code := range codes {
		if !cityCodeRegexp.MatchString(code) {
			return nil, errors.Wrapf(ErrInvalidCity, "%q", code)
		}
		cities = append(cities, City{Code: code})
	}

	return cities, nil
}

func quoteTable(name string) string {
	return pq.QuoteIdentifier(name)
}

func quoteLabel(label string) string {
	return pq.QuoteLiteral(label)
}
