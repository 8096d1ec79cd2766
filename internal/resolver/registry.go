package resolver

import (
	"fmt"
	"stockalert/internal/components/telemetry"
	"stockalert/internal/product"
)

// Registry holds one Resolver per store.
type Registry struct {
	resolvers map[product.StoreID]Resolver
}

// NewRegistry builds a resolver for every known store, opts may leave out
// any store to use the default client options for it.
func NewRegistry(opts map[product.StoreID]ClientOptions, tel telemetry.API) (Registry, error) {
	resolvers := make(map[product.StoreID]Resolver, len(product.Stores))
	for _, store := range product.Stores {
		var extract extractor
		switch store {
		case product.AMAZON:
			extract = amazonExtractor{}
		case product.NEWEGG:
			extract = neweggExtractor{}
		case product.CANADA_COMPUTERS:
			extract = canadaComputersExtractor{}
		default:
			panic(fmt.Sprintf("resolver: no extractor for store %d", int(store)))
		}

		res, err := newHTMLResolver(store, opts[store], extract, tel)
		if err != nil {
			return Registry{}, fmt.Errorf("resolver for %s: %w", store, err)
		}
		resolvers[store] = res
	}
	return Registry{resolvers: resolvers}, nil
}

// NewStaticRegistry wraps already constructed resolvers, later entries for the
// same store replace earlier ones.
func NewStaticRegistry(resolvers ...Resolver) Registry {
	out := make(map[product.StoreID]Resolver, len(resolvers))
	for _, res := range resolvers {
		out[res.Store()] = res
	}
	return Registry{resolvers: out}
}

// For returns the resolver of store, ok is false when none is registered.
func (r Registry) For(store product.StoreID) (Resolver, bool) {
	res, ok := r.resolvers[store]
	return res, ok
}
