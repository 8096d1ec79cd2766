package chrono

import (
	"context"
	"stockalert/internal/components/telemetry"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardImpl(t *testing.T) {
	{
		clock, err := NewStandardImpl("")
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, time.UTC, clock.Location())
		require.Equal(t, time.UTC, clock.Now().Location())
	}
	{
		clock, err := NewStandardImpl("America/Toronto")
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, "America/Toronto", clock.Location().String())
	}
	{
		_, err := NewStandardImpl("Not/AZone")
		require.Error(t, err)
	}
	require.Equal(t, time.UTC, StandardImpl{}.Location())
}

func TestFixedImpl(t *testing.T) {
	instant := time.Date(2024, 11, 2, 13, 0, 0, 0, time.UTC)
	clock := FixedImpl{Time: instant}
	require.Equal(t, instant, clock.Now())
	require.Equal(t, time.UTC, clock.Location())
}

func TestStandardCron(t *testing.T) {
	tel := telemetry.NewRecorder()
	cron := NewStandardCron(tel, FixedImpl{Time: time.Now()})

	require.Error(t, cron.Cron("not a schedule", func() {}))

	var calls atomic.Int32
	err := cron.Cron("@every 1s", func() {
		calls.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*2500)
	defer cancel()
	cron.Run(ctx)

	require.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestStandardCronRecovers(t *testing.T) {
	tel := telemetry.NewRecorder()
	cron := NewStandardCron(tel, FixedImpl{Time: time.Now()})

	err := cron.Cron("@every 1s", func() {
		panic("job exploded")
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*1500)
	defer cancel()
	cron.Run(ctx)

	require.NotEmpty(t, tel.Broken("cron"))
}
