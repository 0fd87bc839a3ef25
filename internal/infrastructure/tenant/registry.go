package tenant

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/internal/domain/entity"
	"github.com/jhoicas/hrms-api/internal/domain/repository"
	"github.com/jhoicas/hrms-api/pkg/logger"
)

var _ repository.TenantStores = (*Registry)(nil)

// OpenFunc abre el TenantStore de una empresa.
type OpenFunc func(ctx context.Context, companyCode string) (repository.TenantStore, error)

// openTimeout tope para abrir (y provisionar) la base de una empresa.
const openTimeout = 30 * time.Second

// Registry cache de conexiones por empresa. Cada código tiene a lo sumo un pool abierto;
// un pool sin uso durante idleTTL se cierra.
type Registry struct {
	open  OpenFunc
	cache *gocache.Cache
	group singleflight.Group
	log   *logger.Logger
}

// NewRegistry construye el registro. idleTTL <= 0 desactiva la expiración.
func NewRegistry(open OpenFunc, idleTTL time.Duration, log *logger.Logger) *Registry {
	cleanup := idleTTL / 2
	if idleTTL <= 0 {
		idleTTL = gocache.NoExpiration
		cleanup = 0
	}
	r := &Registry{
		open:  open,
		cache: gocache.New(idleTTL, cleanup),
		log:   log.Component("tenant"),
	}
	r.cache.OnEvicted(func(code string, v interface{}) {
		if s, ok := v.(repository.TenantStore); ok {
			s.Close()
			r.log.Debug().Str("company_code", code).Msg("pool de empresa cerrado por inactividad")
		}
	})
	return r
}

// Store devuelve el TenantStore de la empresa, abriéndolo la primera vez.
// Accesos concurrentes al mismo código comparten una sola apertura.
func (r *Registry) Store(ctx context.Context, companyCode string) (repository.TenantStore, error) {
	code := entity.NormalizeCompanyCode(companyCode)
	if code == "" {
		return nil, domain.ErrMissingCompanyCode
	}
	if !entity.ValidCompanyCode(code) {
		return nil, domain.NewError(domain.ErrValidation, "código de empresa inválido")
	}

	if s, ok := r.touch(code); ok {
		return s, nil
	}

	v, err, _ := r.group.Do(code, func() (interface{}, error) {
		if s, ok := r.touch(code); ok {
			return s, nil
		}
		// Borra una entrada vencida que el janitor aún no recogió (cierra su pool).
		r.cache.Delete(code)

		openCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), openTimeout)
		defer cancel()
		s, err := r.open(openCtx, code)
		if err != nil {
			r.log.Error().Err(err).Str("company_code", code).Msg("no se pudo abrir la base de la empresa")
			return nil, domain.Wrap(err, domain.ErrInternal, "conectar base de empresa")
		}
		r.cache.SetDefault(code, s)
		r.log.Info().Str("company_code", code).Msg("pool de empresa abierto")
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(repository.TenantStore), nil
}

// touch devuelve el store en cache y renueva su TTL.
func (r *Registry) touch(code string) (repository.TenantStore, bool) {
	v, ok := r.cache.Get(code)
	if !ok {
		return nil, false
	}
	r.cache.SetDefault(code, v)
	return v.(repository.TenantStore), true
}

// Len número de empresas con pool abierto.
func (r *Registry) Len() int {
	return r.cache.ItemCount()
}

// Close cierra todos los pools abiertos, incluidos los vencidos que el janitor aún no recogió.
func (r *Registry) Close() {
	r.cache.DeleteExpired()
	for code, item := range r.cache.Items() {
		if s, ok := item.Object.(repository.TenantStore); ok {
			s.Close()
		}
		r.log.Debug().Str("company_code", code).Msg("pool de empresa cerrado")
	}
	r.cache.Flush()
}
