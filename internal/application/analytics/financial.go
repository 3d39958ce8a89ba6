package analytics

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// normalizeFinancialRows convierte las filas crudas del repositorio en DTOs.
// Cualquier importe nulo o no numérico se toma como cero; nunca falla.
func normalizeFinancialRows(rows []repository.FinancialSummaryRow) []dto.FinancialSummaryDTO {
	out := make([]dto.FinancialSummaryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FinancialSummaryDTO{
			Period:  r.TimePeriod,
			Revenue: toDecimal(r.TotalRevenue).Round(2),
			Cost:    toDecimal(r.TotalCost).Round(2),
			Profit:  toDecimal(r.Profit).Round(2),
		})
	}
	return out
}

// toDecimal interpreta un valor crudo del driver como decimal; lo que no se
// pueda interpretar vale cero.
func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case decimal.NullDecimal:
		if !val.Valid {
			return decimal.Zero
		}
		return val.Decimal
	case string:
		return parseDecimal(val)
	case *string:
		if val == nil {
			return decimal.Zero
		}
		return parseDecimal(*val)
	case []byte:
		return parseDecimal(string(val))
	case json.Number:
		return parseDecimal(val.String())
	case float64:
		return fromFloat(val)
	case float32:
		return fromFloat(float64(val))
	case pgtype.Numeric:
		return fromNumeric(val)
	case *pgtype.Numeric:
		if val == nil {
			return decimal.Zero
		}
		return fromNumeric(*val)
	case int:
		return decimal.NewFromInt(int64(val))
	case int8:
		return decimal.NewFromInt(int64(val))
	case int16:
		return decimal.NewFromInt(int64(val))
	case int32:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case uint:
		return fromUint(uint64(val))
	case uint8:
		return decimal.NewFromInt(int64(val))
	case uint16:
		return decimal.NewFromInt(int64(val))
	case uint32:
		return decimal.NewFromInt(int64(val))
	case uint64:
		return fromUint(val)
	default:
		return decimal.Zero
	}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// fromUint evita el desborde de uint64 por encima de MaxInt64.
func fromUint(u uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

// fromNumeric NULL, NaN e infinitos valen cero.
func fromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
