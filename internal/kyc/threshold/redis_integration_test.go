//go:build integration

package threshold

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"verigate/internal/kyc/models"
	"verigate/pkg/testutil/containers"
)

func TestRedisSourceIntegration(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	require.NoError(t, rc.Client.HSet(ctx, "kyc:thresholds",
		"APP_DOC_THRESHOLD__LK__NIC", "0.72",
		"APP_DOC_THRESHOLD__LK", "bogus",
	).Err())

	src := NewRedisSource(rc.Client, "kyc:thresholds", 0, nil)
	require.NoError(t, src.Refresh(ctx))

	r := New("APP", testDefaults, src)
	require.Equal(t, 0.72, r.Resolve(models.CheckDocClass, models.Segment{Country: "LK", DocClass: "NIC"}))
	require.Equal(t, 0.80, r.Resolve(models.CheckDocClass, models.Segment{Country: "LK", DocClass: "PASSPORT"}))
}
