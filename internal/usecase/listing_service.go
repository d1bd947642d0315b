package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chemsearch/backend/internal/domain"
	"github.com/chemsearch/backend/internal/observability"
	"github.com/chemsearch/backend/internal/pricing"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// ListingServiceConfig holds configuration for the listing service
type ListingServiceConfig struct {
	Concurrency int
}

// ListingService turns raw supplier listings into products. It applies the
// scraped fields to a ProductBuilder per listing, builds them concurrently,
// and can persist the unbuilt drafts for a later rebuild.
type ListingService struct {
	converter   domain.CurrencyConverter
	snapshots   domain.SnapshotStore
	matcher     *MatchingService
	logger      *observability.Logger
	diag        domain.Diagnostics
	concurrency int
}

// NewListingService creates a new listing service. snapshots may be nil,
// in which case snapshot operations return domain.ErrSnapshotsDisabled.
func NewListingService(
	converter domain.CurrencyConverter,
	snapshots domain.SnapshotStore,
	matcher *MatchingService,
	logger *observability.Logger,
	cfg ListingServiceConfig,
) *ListingService {
	if logger == nil {
		logger = observability.Nop()
	}
	if matcher == nil {
		matcher = NewMatchingService(MatchConfig{}, logger)
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &ListingService{
		converter:   converter,
		snapshots:   snapshots,
		matcher:     matcher,
		logger:      logger.WithComponent("listings"),
		diag:        logger.Component("builder"),
		concurrency: concurrency,
	}
}

// NewBuilder returns an empty builder wired to the service's converter and log
func (s *ListingService) NewBuilder(baseURL string) *ProductBuilder {
	return NewProductBuilder(baseURL, s.converter, WithDiagnostics(s.diag))
}

// BuildListings builds every listing in req. Listings that do not match the
// query well enough or fail validation are counted as skipped. A currency
// conversion failure aborts the whole batch.
func (s *ListingService) BuildListings(ctx context.Context, req *domain.BuildRequest) (*domain.BuildResult, error) {
	builders, filtered, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	result, err := s.buildAll(ctx, builders)
	if err != nil {
		return nil, err
	}
	result.Skipped += filtered

	s.logger.Info().
		Str("supplier", req.Supplier.Name).
		Int("listings", len(req.Listings)).
		Int("products", len(result.Products)).
		Int("skipped", result.Skipped).
		Msg("built listings")

	return result, nil
}

// Snapshot stores the unbuilt drafts of req and returns the stored snapshot
func (s *ListingService) Snapshot(ctx context.Context, req *domain.BuildRequest) (*domain.Snapshot, error) {
	if s.snapshots == nil {
		return nil, domain.ErrSnapshotsDisabled
	}

	builders, _, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{
		ID:        uuid.NewString(),
		BaseURL:   req.Supplier.BaseURL,
		Drafts:    make([]domain.ProductDraft, 0, len(builders)),
		CreatedAt: time.Now().UTC(),
	}
	for _, b := range builders {
		snap.Drafts = append(snap.Drafts, b.Dump())
	}

	if err := s.snapshots.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.Info().
		Str("snapshot_id", snap.ID).
		Int("drafts", len(snap.Drafts)).
		Msg("stored snapshot")

	return snap, nil
}

// RestoreAndBuild loads a stored snapshot and builds its drafts
func (s *ListingService) RestoreAndBuild(ctx context.Context, id string) (*domain.BuildResult, error) {
	if s.snapshots == nil {
		return nil, domain.ErrSnapshotsDisabled
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: snapshot id is required", domain.ErrInvalidRequest)
	}

	snap, err := s.snapshots.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	builders := CreateFromCache(snap.BaseURL, s.converter, snap.Drafts, WithDiagnostics(s.diag))

	result, err := s.buildAll(ctx, builders)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("snapshot_id", id).
		Int("products", len(result.Products)).
		Int("skipped", result.Skipped).
		Msg("rebuilt snapshot")

	return result, nil
}

// prepare validates req and applies each matching listing to a new builder.
// It returns the builders and the number of listings filtered out by score.
func (s *ListingService) prepare(req *domain.BuildRequest) ([]*ProductBuilder, int, error) {
	if req == nil {
		return nil, 0, domain.ErrInvalidRequest
	}
	if strings.TrimSpace(req.Supplier.Name) == "" || strings.TrimSpace(req.Supplier.BaseURL) == "" {
		return nil, 0, fmt.Errorf("%w: supplier name and baseURL are required", domain.ErrInvalidRequest)
	}

	builders := make([]*ProductBuilder, 0, len(req.Listings))
	filtered := 0

	for i, listing := range req.Listings {
		b := s.NewBuilder(req.Supplier.BaseURL)
		applyListing(b, req.Supplier, listing)

		if query := strings.TrimSpace(req.Query); query != "" {
			match := s.matcher.Score(query, listing.Title)
			if !s.matcher.Accept(match.MatchScore) {
				filtered++
				continue
			}
			b.SetFuzz(domain.FuzzResult{Score: match.MatchScore, Idx: i})
		}

		builders = append(builders, b)
	}

	return builders, filtered, nil
}

// buildAll builds the builders concurrently, keeping their order
func (s *ListingService) buildAll(ctx context.Context, builders []*ProductBuilder) (*domain.BuildResult, error) {
	products := make([]*domain.Product, len(builders))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, b := range builders {
		g.Go(func() error {
			p, err := b.Build(gctx)
			if domain.IsDiscard(err) {
				return nil
			}
			if err != nil {
				return err
			}
			products[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &domain.BuildResult{Products: make([]domain.Product, 0, len(builders))}
	for _, p := range products {
		if p == nil {
			result.Skipped++
			continue
		}
		result.Products = append(result.Products, *p)
	}

	return result, nil
}

// applyListing copies the scraped fields of l onto b
func applyListing(b *ProductBuilder, supplier domain.SupplierInfo, l domain.RawListing) {
	b.SetBasicInfo(l.Title, l.URL, supplier.Name)

	if supplier.Country != "" {
		b.SetSupplierCountry(supplier.Country)
	}
	if supplier.Shipping != "" {
		b.SetSupplierShipping(supplier.Shipping)
	}
	if len(supplier.PaymentMethods) > 0 {
		b.SetSupplierPaymentMethods(supplier.PaymentMethods)
	}

	if l.Pricing != "" {
		b.SetPricing(PriceFromText(l.Pricing))
	}
	if l.Price != nil {
		b.SetPricing(PriceWithCurrency(l.Price, strings.ToUpper(l.CurrencyCode), l.CurrencySymbol))
	} else {
		if l.CurrencyCode != "" {
			b.SetCurrencyCode(strings.ToUpper(l.CurrencyCode))
		}
		if l.CurrencySymbol != "" {
			b.SetCurrencySymbol(l.CurrencySymbol)
		}
	}
	if code, ok := b.Get("currencyCode"); ok {
		if _, hasSymbol := b.Get("currencySymbol"); !hasSymbol {
			b.SetCurrencySymbol(pricing.SymbolFor(code.(string)))
		}
	}

	if l.Quantity != "" {
		b.SetQuantity(QuantityFromText(l.Quantity))
	}
	if l.UOM != "" {
		b.SetUOM(l.UOM)
	}

	if l.Formula != "" {
		b.SetFormula(l.Formula)
	} else {
		b.SetFormula(l.Title)
	}

	if l.CAS != "" {
		b.SetCAS(l.CAS)
	}
	if _, ok := b.Get("cas"); !ok {
		b.SetCAS(l.Title + " " + l.Description)
	}

	if l.Grade != "" {
		b.SetGrade(l.Grade)
	}
	if l.Description != "" {
		b.SetDescription(l.Description)
	}
	if l.Availability != nil {
		b.SetAvailability(l.Availability)
	}
	if l.ID != nil {
		b.SetID(l.ID)
	}
	b.SetUUID(l.UUID).SetSku(l.SKU).SetVendor(l.Vendor)

	if len(l.Variants) > 0 {
		b.AddVariants(l.Variants)
	}
	if len(l.Raw) > 0 {
		b.AddRawData(l.Raw)
	}
}
