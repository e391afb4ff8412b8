package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/pantrychef/backend/internal/logging"
	"github.com/pageza/pantrychef/backend/internal/metrics"
	"github.com/pageza/pantrychef/backend/internal/recommend"
	"github.com/pageza/pantrychef/backend/internal/types"
)

const (
	InventorySourceServer = "server"
	InventorySourceClient = "client"
)

// Caller is the authenticated identity of a request. A nil *Caller is an
// anonymous request.
type Caller struct {
	UserID uint
}

// RecommendationService loads one request's data snapshot and ranks recipes.
type RecommendationService struct {
	db        *gorm.DB
	engine    *recommend.Engine
	catalog   *CatalogService
	inventory *InventoryService
	history   *HistoryService
	images    *ImageService
	metrics   *metrics.Metrics

	// Now is the clock used for "today" and history ages.
	Now func() time.Time
}

func NewRecommendationService(db *gorm.DB, engine *recommend.Engine, images *ImageService, m *metrics.Metrics) *RecommendationService {
	return &RecommendationService{
		db:        db,
		engine:    engine,
		catalog:   NewCatalogService(db),
		inventory: NewInventoryService(db),
		history:   NewHistoryService(db),
		images:    images,
		metrics:   m,
		Now:       time.Now,
	}
}

// snapshot is the server data read for one request.
type snapshot struct {
	raws       []recommend.RawRecipe
	seasonings map[string]struct{}
	resolver   recommend.Resolver
	inventory  []recommend.InventoryItem
	history    []recommend.HistoryEvent
	allergies  []string
}

// Propose returns ranked recipes for the request. Client-supplied inventory,
// recipes and history replace the server's copies. Anonymous callers never
// read server-held user data.
func (s *RecommendationService) Propose(ctx context.Context, caller *Caller, req *types.ProposeRequest) ([]types.ProposalResponse, error) {
	if req == nil || req.MaxTime == nil || req.MaxCalories == nil {
		return nil, ErrInvalidRequest
	}

	userID, authenticated, err := resolveTargetUser(caller, req.UserID)
	if err != nil {
		return nil, err
	}

	clientInventory := len(req.Inventory) > 0
	clientRecipes := len(req.Recipes) > 0
	clientHistory := len(req.History) > 0

	if !authenticated && !clientInventory {
		return nil, ErrMissingInventory
	}

	snap, err := s.load(ctx, userID, authenticated, !clientRecipes, !clientInventory, !clientHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation data: %w", err)
	}

	loc := s.engine.Location()
	resolve := recommend.ChainResolver(snap.resolver, recommend.IdentityResolver)

	raws := snap.raws
	if clientRecipes {
		raws = types.ToRawRecipes(req.Recipes)
	}
	recipes, skipped := recommend.VectorizeCatalog(raws, resolve)
	s.metrics.AddCatalogSkipped(skipped)
	if len(recipes) == 0 {
		return nil, ErrEmptyCatalog
	}

	source := InventorySourceServer
	items := snap.inventory
	if clientInventory {
		source = InventorySourceClient
		items = resolveInventoryNames(types.ToInventory(req.Inventory, loc), resolve)
	}

	history := snap.history
	if clientHistory {
		history = types.ToHistory(req.History, loc)
	}

	allergies := make([]string, 0, len(req.Allergies)+len(snap.allergies))
	for _, a := range append(append([]string{}, req.Allergies...), snap.allergies...) {
		if canon, ok := resolve.Resolve(a); ok {
			allergies = append(allergies, canon)
		}
	}

	results, err := s.rank(ctx, recipes, history, recommend.Snapshot{
		Recipes:   recipes,
		Inventory: recommend.NewInventory(items),
		Params:    recommend.NewUserParameters(*req.MaxTime, *req.MaxCalories, allergies),
		Exempt:    snap.seasonings,
		Now:       s.Now(),
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoProposals
	}

	label := fmt.Sprintf("%s inventory: %d items", source, len(items))
	out := make([]types.ProposalResponse, 0, len(results))
	for _, r := range results {
		r.ImageURL = s.images.ResolveURL(ctx, r.ImageURL)
		out = append(out, types.ProposalResponse{
			ProposalResult:  r,
			InventorySource: source,
			InventoryCount:  len(items),
			InventoryLabel:  label,
		})
	}

	logging.Ctx(ctx).Info().
		Uint("user_id", userID).
		Bool("authenticated", authenticated).
		Str("inventory_source", source).
		Int("candidates", len(recipes)).
		Int("proposals", len(out)).
		Msg("recommendations computed")

	return out, nil
}

// load reads everything the request needs from storage in one read-only
// transaction, before any scoring starts.
func (s *RecommendationService) load(ctx context.Context, userID uint, authenticated, wantCatalog, wantInventory, wantHistory bool) (*snapshot, error) {
	snap := &snapshot{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if snap.seasonings, err = s.catalog.SeasoningNames(ctx, tx); err != nil {
			return err
		}
		resolver, err := s.catalog.Resolver(ctx, tx)
		if err != nil {
			return err
		}
		snap.resolver = resolver

		if wantCatalog {
			if snap.raws, err = s.catalog.LoadCatalog(ctx, tx); err != nil {
				return err
			}
		}
		if !authenticated {
			return nil
		}
		if wantInventory {
			if snap.inventory, err = s.inventory.CurrentInventory(ctx, tx, userID); err != nil {
				return err
			}
		}
		if wantHistory {
			if snap.history, err = s.history.History(ctx, tx, userID); err != nil {
				return err
			}
		}
		snap.allergies, err = s.inventory.SavedAllergies(ctx, tx, userID)
		return err
	}, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// rank builds the profile and runs the engine. A panic is logged and
// reported as ErrInternal rather than a partial result.
func (s *RecommendationService) rank(ctx context.Context, recipes []recommend.Recipe, history []recommend.HistoryEvent, snap recommend.Snapshot) (results []recommend.ProposalResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Ctx(ctx).Error().Interface("panic", r).Msg("recommendation ranking panicked")
			results, err = nil, ErrInternal
		}
	}()

	snap.Profile = s.engine.BuildProfile(history, recommend.VectorLookup(recipes), snap.Now)
	return s.engine.Propose(snap), nil
}

func resolveTargetUser(caller *Caller, requested *int64) (uint, bool, error) {
	if caller != nil {
		if requested != nil && *requested != 0 && *requested != int64(caller.UserID) {
			return 0, false, ErrForbiddenUser
		}
		return caller.UserID, true, nil
	}
	if requested == nil || *requested <= 0 {
		return 0, false, ErrInvalidUser
	}
	return uint(*requested), false, nil
}

func resolveInventoryNames(items []recommend.InventoryItem, resolve recommend.Resolver) []recommend.InventoryItem {
	for i := range items {
		if canon, ok := resolve.Resolve(items[i].Name); ok {
			items[i].Name = canon
		} else {
			items[i].Name = strings.TrimSpace(items[i].Name)
		}
	}
	return items
}
