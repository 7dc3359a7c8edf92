package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amniuelmohamed/freshconcept/internal/repository"
	"github.com/amniuelmohamed/freshconcept/internal/schedule"
)

type stubSettingRepo struct {
	values map[string]*repository.Setting
}

func newStubSettingRepo() *stubSettingRepo {
	return &stubSettingRepo{values: make(map[string]*repository.Setting)}
}

func (r *stubSettingRepo) Get(_ context.Context, key string) (*repository.Setting, error) {
	setting, ok := r.values[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return setting, nil
}

func (r *stubSettingRepo) Upsert(_ context.Context, setting *repository.Setting) error {
	r.values[setting.Key] = setting
	return nil
}

func (r *stubSettingRepo) List(_ context.Context) ([]repository.Setting, error) {
	var out []repository.Setting
	for _, setting := range r.values {
		out = append(out, *setting)
	}
	return out, nil
}

func (r *stubSettingRepo) ListByCategory(_ context.Context, category string) ([]repository.Setting, error) {
	var out []repository.Setting
	for _, setting := range r.values {
		if setting.Category == category {
			out = append(out, *setting)
		}
	}
	return out, nil
}

func TestCutoffPolicyDefaults(t *testing.T) {
	svc := NewSettingsService(newStubSettingRepo(), nil)

	policy, err := svc.CutoffPolicy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schedule.CutoffPolicy{CutoffTime: "14:00", DayOffset: 1}, policy)
}

func TestCutoffPolicyReadsStoredValues(t *testing.T) {
	repo := newStubSettingRepo()
	repo.values[SettingOrderCutoffTime] = &repository.Setting{Key: SettingOrderCutoffTime, Value: "09:30"}
	repo.values[SettingOrderCutoffDayOffset] = &repository.Setting{Key: SettingOrderCutoffDayOffset, Value: "2"}
	svc := NewSettingsService(repo, nil)

	policy, err := svc.CutoffPolicy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schedule.CutoffPolicy{CutoffTime: "09:30", DayOffset: 2}, policy)
}

func TestCutoffPolicyMalformedRowSurfaces(t *testing.T) {
	repo := newStubSettingRepo()
	repo.values[SettingOrderCutoffTime] = &repository.Setting{Key: SettingOrderCutoffTime, Value: "25:99"}
	svc := NewSettingsService(repo, nil)

	_, err := svc.CutoffPolicy(context.Background())
	assert.ErrorIs(t, err, ErrInvalidCutoffPolicy)
}

func TestUpdateCutoffPolicyValidates(t *testing.T) {
	repo := newStubSettingRepo()
	svc := NewSettingsService(repo, nil)

	err := svc.UpdateCutoffPolicy(context.Background(), schedule.CutoffPolicy{CutoffTime: "noon", DayOffset: 1})
	assert.ErrorIs(t, err, ErrInvalidCutoffPolicy)

	err = svc.UpdateCutoffPolicy(context.Background(), schedule.CutoffPolicy{CutoffTime: "14:00", DayOffset: -1})
	assert.ErrorIs(t, err, ErrInvalidCutoffPolicy)

	require.NoError(t, svc.UpdateCutoffPolicy(context.Background(), schedule.CutoffPolicy{CutoffTime: "16:45", DayOffset: 0}))
	assert.Equal(t, "16:45", repo.values[SettingOrderCutoffTime].Value)
	assert.Equal(t, "0", repo.values[SettingOrderCutoffDayOffset].Value)
}

func TestUpdateRejectsOrderingKeys(t *testing.T) {
	svc := NewSettingsService(newStubSettingRepo(), nil)

	err := svc.Update(context.Background(), SettingOrderCutoffTime, "12:00", "ordering")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
