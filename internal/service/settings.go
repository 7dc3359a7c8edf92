package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/amniuelmohamed/freshconcept/internal/cache"
	"github.com/amniuelmohamed/freshconcept/internal/repository"
	"github.com/amniuelmohamed/freshconcept/internal/schedule"
)

// Setting keys recognized by the ordering flow.
const (
	SettingOrderCutoffTime      = "order_cutoff_time"
	SettingOrderCutoffDayOffset = "order_cutoff_day_offset"
	SettingLoginLogRetention    = "login_log_retention_days"
	SettingOrganizationName     = "organization_name"
)

const settingsCacheTTL = time.Minute

// SettingsService reads and writes organization settings, including the
// cutoff policy that drives delivery scheduling.
type SettingsService interface {
	CutoffPolicy(ctx context.Context) (schedule.CutoffPolicy, error)
	UpdateCutoffPolicy(ctx context.Context, policy schedule.CutoffPolicy) error
	List(ctx context.Context) ([]repository.Setting, error)
	Update(ctx context.Context, key, value, category string) error
	LoginLogRetentionDays(ctx context.Context) int
}

type settingsService struct {
	settings repository.SettingRepository
	cache    cache.Store
	now      func() time.Time
}

// NewSettingsService wires the settings reader with a cache namespace.
func NewSettingsService(settings repository.SettingRepository, store cache.Store) SettingsService {
	var ns cache.Store
	if store != nil {
		ns = store.Namespace("settings")
	}
	return &settingsService{
		settings: settings,
		cache:    ns,
		now:      time.Now,
	}
}

func (s *settingsService) value(ctx context.Context, key, fallback string) string {
	if s.cache != nil {
		if cached, ok := s.cache.GetString(ctx, key); ok {
			return cached
		}
	}
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return fallback
	}
	if s.cache != nil {
		s.cache.SetString(ctx, key, setting.Value, settingsCacheTTL)
	}
	return setting.Value
}

// CutoffPolicy loads the ordering cutoff settings. The stored values are
// validated on write, so a malformed row here means the database was edited
// out of band; the error surfaces rather than guessing a policy.
func (s *settingsService) CutoffPolicy(ctx context.Context) (schedule.CutoffPolicy, error) {
	cutoffTime := s.value(ctx, SettingOrderCutoffTime, "14:00")
	rawOffset := s.value(ctx, SettingOrderCutoffDayOffset, "1")

	offset, err := strconv.Atoi(rawOffset)
	if err != nil || offset < 0 {
		return schedule.CutoffPolicy{}, fmt.Errorf("%w: day offset %q", ErrInvalidCutoffPolicy, rawOffset)
	}
	policy := schedule.CutoffPolicy{CutoffTime: cutoffTime, DayOffset: offset}
	if err := policy.Validate(); err != nil {
		return schedule.CutoffPolicy{}, fmt.Errorf("%w: %v", ErrInvalidCutoffPolicy, err)
	}
	return policy, nil
}

func (s *settingsService) UpdateCutoffPolicy(ctx context.Context, policy schedule.CutoffPolicy) error {
	if err := policy.Validate(); err != nil {
		var formatErr *schedule.InvalidCutoffFormatError
		if errors.As(err, &formatErr) {
			return fmt.Errorf("%w: cutoff time %q", ErrInvalidCutoffPolicy, formatErr.Value)
		}
		return fmt.Errorf("%w: %v", ErrInvalidCutoffPolicy, err)
	}

	now := s.now().Unix()
	entries := []repository.Setting{
		{Key: SettingOrderCutoffTime, Value: policy.CutoffTime, Category: "ordering", UpdatedAt: now},
		{Key: SettingOrderCutoffDayOffset, Value: strconv.Itoa(policy.DayOffset), Category: "ordering", UpdatedAt: now},
	}
	for i := range entries {
		if err := s.settings.Upsert(ctx, &entries[i]); err != nil {
			return err
		}
		if s.cache != nil {
			s.cache.Delete(ctx, entries[i].Key)
		}
	}
	return nil
}

func (s *settingsService) List(ctx context.Context) ([]repository.Setting, error) {
	return s.settings.List(ctx)
}

func (s *settingsService) Update(ctx context.Context, key, value, category string) error {
	if key == "" {
		return fmt.Errorf("%w: setting key is required", ErrInvalidInput)
	}
	if key == SettingOrderCutoffTime || key == SettingOrderCutoffDayOffset {
		return fmt.Errorf("%w: use the ordering policy endpoint for %s", ErrInvalidInput, key)
	}
	if category == "" {
		category = "general"
	}
	setting := &repository.Setting{Key: key, Value: value, Category: category, UpdatedAt: s.now().Unix()}
	if err := s.settings.Upsert(ctx, setting); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Delete(ctx, key)
	}
	return nil
}

func (s *settingsService) LoginLogRetentionDays(ctx context.Context) int {
	raw := s.value(ctx, SettingLoginLogRetention, "90")
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 90
	}
	return days
}
