package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/scorecatalog/mutopia-catalog/logger"
	"github.com/scorecatalog/mutopia-catalog/mongo/mongotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectMongoReachable(t *testing.T) {
	fake := mongotest.NewDatabase().FakeClient()

	client, reachable, err := connectMongo(context.Background(), fake, "music_sheets_db", logger.NewNop())

	require.NoError(t, err)
	assert.True(t, reachable)
	assert.Same(t, fake, client)
	assert.Equal(t, 1, fake.Pings)
}

func TestConnectMongoStartsDegradedWhenPingFails(t *testing.T) {
	fake := mongotest.NewDatabase().FakeClient()
	fake.PingErr = errors.New("server selection error: no reachable servers")

	client, reachable, err := connectMongo(context.Background(), fake, "music_sheets_db", logger.NewNop())

	require.NoError(t, err)
	assert.False(t, reachable)
	assert.Same(t, fake, client, "the client is kept so health can report unhealthy")
	assert.False(t, fake.Disconnected)
}
