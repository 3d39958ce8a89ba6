package analytics

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/application/dto"
)

// ResultCache almacena payloads ya calculados del dashboard. La implementación
// de producción vive en infrastructure/cache (Redis); nil desactiva la caché.
type ResultCache interface {
	// FetchJSON decodifica en dest el valor de key o, si no existe, ejecuta
	// loader, guarda su resultado y lo decodifica en dest.
	FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error
	// StoreJSON guarda value en key aunque ya exista, renovando su TTL.
	StoreJSON(ctx context.Context, key string, value any) error
	// Invalidate descarta todas las entradas vigentes.
	Invalidate(ctx context.Context) error
}

// FinancialSummaryExporter renderiza el resumen financiero en un formato descargable.
type FinancialSummaryExporter interface {
	Format() string      // "csv", "pdf"
	ContentType() string // MIME de la respuesta
	Export(ctx context.Context, report FinancialReport) ([]byte, error)
}

// FinancialReport datos que recibe un exportador.
type FinancialReport struct {
	Title  string
	Filter string
	Period dto.PeriodDTO
	Rows   []dto.FinancialSummaryDTO
}
