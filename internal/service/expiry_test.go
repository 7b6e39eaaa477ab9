package service_test

import (
	"errors"
	"testing"
	"time"

	"cloudrent/internal/cloud"
	"cloudrent/internal/cloud/memory"
	mock_cloud "cloudrent/internal/cloud/mock"
	"cloudrent/internal/model"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExpirySweep(t *testing.T) {
	provider := memory.New()
	e := newEnv(t, provider)

	for name, end := range map[string]string{
		"vm-old":   "2024-01-01",
		"vm-today": "2024-01-02",
		"vm-new":   "2024-06-01",
	} {
		req := serverRequest(name, "team-net")
		req.StartDate = date("2023-12-01")
		req.EndDate = date(end)
		_, err := e.rentals.Provision(ctx, req)
		require.NoError(t, err)
	}

	now := time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)
	result, err := e.expiry.RunExpirySweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"vm-old"}, result.Reclaimed)
	assert.Empty(t, result.Failed)
	assert.Equal(t, now, result.Now)

	assert.False(t, provider.HasInstance("vm-old"))
	assert.True(t, provider.HasInstance("vm-today"))
	assert.True(t, provider.HasInstance("vm-new"))
	assert.True(t, provider.HasNetwork(node1, "team-net"))

	left, err := e.rentals.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, left, 2)

	// nothing more to do on the same day
	result, err = e.expiry.RunExpirySweep(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, result.Reclaimed)
}

func TestRunExpirySweep_LastRentalReleasesNetwork(t *testing.T) {
	provider := memory.New()
	e := newEnv(t, provider)

	req := serverRequest("vm1", "team-net")
	req.EndDate = date("2024-01-01")
	_, err := e.rentals.Provision(ctx, req)
	require.NoError(t, err)

	result, err := e.expiry.RunExpirySweep(ctx, date("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, []string{"vm1"}, result.Reclaimed)
	assert.False(t, provider.HasNetwork(node1, "team-net"))
	assert.False(t, provider.HasProfile(node1, "m1.small"))
}

func TestRunExpirySweep_FailureDoesNotStopOthers(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mock_cloud.NewMockProvider(ctrl)
	e := newEnv(t, provider)

	for i, name := range []string{"vm-a", "vm-b"} {
		_, err := e.rentalRepo.Create(ctx, &model.Rental{
			Kind:        model.RentalKindServer,
			UserName:    "alice",
			Name:        name,
			StartDate:   date("2023-12-01"),
			EndDate:     date("2023-12-31").AddDate(0, 0, i),
			NodeName:    node1,
			NetworkName: "internal",
			FlavorName:  "m1.tiny",
			InstanceID:  "id-" + name,
			Address:     "203.0.113." + string(rune('1'+i)),
		})
		require.NoError(t, err)
	}

	gomock.InOrder(
		provider.EXPECT().ReleaseAddress(gomock.Any(), node1, "203.0.113.1").Return(nil),
		provider.EXPECT().DeleteInstance(gomock.Any(), node1, "id-vm-a").
			Return(cloud.Wrap(memory.OpDeleteInstance, node1, "id-vm-a", errors.New("hypervisor unreachable"))),
		provider.EXPECT().ReleaseAddress(gomock.Any(), node1, "203.0.113.2").Return(nil),
		provider.EXPECT().DeleteInstance(gomock.Any(), node1, "id-vm-b").Return(nil),
	)

	result, err := e.expiry.RunExpirySweep(ctx, date("2024-01-05"))
	require.NoError(t, err)
	assert.Equal(t, []string{"vm-b"}, result.Reclaimed)
	assert.Equal(t, []string{"vm-a"}, result.Failed)

	// the failed rental stays for the next sweep
	kept, err := e.rentalRepo.GetByName(ctx, "vm-a")
	require.NoError(t, err)
	assert.NotNil(t, kept)
	gone, err := e.rentalRepo.GetByName(ctx, "vm-b")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
