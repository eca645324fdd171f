package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"orgadmin/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the periodic maintenance jobs: refreshing per-organization
// stock snapshots into Redis and sweeping snapshots of deleted
// organizations.
type Scheduler struct {
	scheduler gocron.Scheduler
	orgs      repositories.OrganizationRepository
	tenants   repositories.TenantRepository
	stocks    repositories.StockRepository
	redis     *redis.Client
}

func NewScheduler(orgs repositories.OrganizationRepository, tenants repositories.TenantRepository, stocks repositories.StockRepository, redisClient *redis.Client) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		scheduler: s,
		orgs:      orgs,
		tenants:   tenants,
		stocks:    stocks,
		redis:     redisClient,
	}, nil
}

func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(func() {
			if err := s.RefreshSnapshots(ctx); err != nil {
				log.Error().Err(err).Msg("snapshot refresh failed")
			}
		}),
	)
	if err != nil {
		return err
	}

	_, err = s.scheduler.NewJob(
		gocron.DurationJob(6*time.Hour),
		gocron.NewTask(func() {
			if err := s.SweepOrphanSnapshots(ctx); err != nil {
				log.Error().Err(err).Msg("snapshot sweep failed")
			}
		}),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	log.Info().Msg("job scheduler started")
	return nil
}

func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

func snapshotKey(organizationID uuid.UUID) string {
	return fmt.Sprintf("orgadmin:snapshot:org:%s", organizationID)
}

type productSnapshot struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	TotalQuantity int       `json:"total_quantity"`
}

// RefreshSnapshots aggregates per-organization stock totals and caches them
// in Redis for the dashboards. Each snapshot is organization-filtered: the
// cross-tenant read never crosses the organization boundary.
func (s *Scheduler) RefreshSnapshots(ctx context.Context) error {
	orgIDs, err := s.orgs.ListIDs(ctx)
	if err != nil {
		return err
	}
	for _, orgID := range orgIDs {
		tenants, err := s.tenants.List(ctx, repositories.OrgFilter{IDs: []uuid.UUID{orgID}}, 1000, 0)
		if err != nil {
			return err
		}
		tenantIDs := make([]uuid.UUID, 0, len(tenants))
		for _, t := range tenants {
			tenantIDs = append(tenantIDs, t.ID)
		}
		if len(tenantIDs) == 0 {
			continue
		}

		rows, err := s.stocks.ListAcrossTenants(ctx,
			repositories.Unscoped{Reason: "organization snapshot aggregation"},
			repositories.TenantFilter{IDs: tenantIDs},
			repositories.OrgFilter{IDs: []uuid.UUID{orgID}},
		)
		if err != nil {
			return err
		}

		index := make(map[uuid.UUID]int)
		var snapshots []productSnapshot
		for _, row := range rows {
			i, seen := index[row.ProductID]
			if !seen {
				index[row.ProductID] = len(snapshots)
				snapshots = append(snapshots, productSnapshot{ProductID: row.ProductID, ProductName: row.Product.Name})
				i = len(snapshots) - 1
			}
			snapshots[i].TotalQuantity += row.Quantity
		}

		data, err := json.Marshal(snapshots)
		if err != nil {
			return err
		}
		if err := s.redis.Set(ctx, snapshotKey(orgID), data, time.Hour).Err(); err != nil {
			log.Warn().Err(err).Str("organization_id", orgID.String()).Msg("snapshot write failed")
		}
	}
	log.Debug().Int("organizations", len(orgIDs)).Msg("snapshots refreshed")
	return nil
}

// SweepOrphanSnapshots deletes snapshot keys whose organization no longer
// exists.
func (s *Scheduler) SweepOrphanSnapshots(ctx context.Context) error {
	orgIDs, err := s.orgs.ListIDs(ctx)
	if err != nil {
		return err
	}
	alive := make(map[string]struct{}, len(orgIDs))
	for _, id := range orgIDs {
		alive[id.String()] = struct{}{}
	}

	iter := s.redis.Scan(ctx, 0, "orgadmin:snapshot:org:*", 100).Iterator()
	var swept int
	for iter.Next(ctx) {
		key := iter.Val()
		orgID := strings.TrimPrefix(key, "orgadmin:snapshot:org:")
		if _, ok := alive[orgID]; ok {
			continue
		}
		if err := s.redis.Del(ctx, key).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("snapshot delete failed")
			continue
		}
		swept++
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if swept > 0 {
		log.Info().Int("swept", swept).Msg("orphan snapshots removed")
	}
	return nil
}
