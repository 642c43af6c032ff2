package client

import (
	"context"

	"github.com/rogerio-castellano/admin-console/internal/models"
	"golang.org/x/sync/errgroup"
)

// People is the person resource plus the four location lookups.
type People struct {
	*Resource[models.Person]
	countries   *Resource[models.Location]
	departments *Resource[models.Location]
	provinces   *Resource[models.Location]
	districts   *Resource[models.Location]
}

func NewPeople(c *Client) *People {
	return &People{
		Resource:    NewResource[models.Person](c, "persons"),
		countries:   NewResource[models.Location](c, "paises"),
		departments: NewResource[models.Location](c, "departamentos"),
		provinces:   NewResource[models.Location](c, "provincias"),
		districts:   NewResource[models.Location](c, "distritos"),
	}
}

func (p *People) Countries(ctx context.Context) ([]models.Location, error) {
	return p.countries.List(ctx)
}

func (p *People) Departments(ctx context.Context) ([]models.Location, error) {
	return p.departments.List(ctx)
}

func (p *People) Provinces(ctx context.Context) ([]models.Location, error) {
	return p.provinces.List(ctx)
}

func (p *People) Districts(ctx context.Context) ([]models.Location, error) {
	return p.districts.List(ctx)
}

// ListWithLocation fetches people and every location collection concurrently
// and resolves the location names. Any failure fails the whole join; callers
// fall back to List.
func (p *People) ListWithLocation(ctx context.Context) ([]models.Person, error) {
	var (
		people                    []models.Person
		paises, deps, provs, dist []models.Location
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { people, err = p.List(gctx); return })
	g.Go(func() (err error) { paises, err = p.Countries(gctx); return })
	g.Go(func() (err error) { deps, err = p.Departments(gctx); return })
	g.Go(func() (err error) { provs, err = p.Provinces(gctx); return })
	g.Go(func() (err error) { dist, err = p.Districts(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	countries, departments, provinces, districts := names(paises), names(deps), names(provs), names(dist)
	out := make([]models.Person, len(people))
	for i, person := range people {
		person.PaisNombre = countries[person.PaisID]
		person.DepartamentoNombre = departments[person.DepartamentoID]
		person.ProvinciaNombre = provinces[person.ProvinciaID]
		person.DistritoNombre = districts[person.DistritoID]
		out[i] = person
	}
	return out, nil
}

func names(locs []models.Location) map[int]string {
	m := make(map[int]string, len(locs))
	for _, l := range locs {
		m[int(l.ID)] = l.Nombre
	}
	return m
}
