package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pvolkov2019/user-portal/internal/models"
)

func setupRedisContainer(t *testing.T) *redis.Client {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "6379")

	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", host, port.Int()),
	})
	t.Cleanup(func() { client.Close() })

	assert.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestFlashRepository_PushAndDrain(t *testing.T) {
	client := setupRedisContainer(t)
	repo := NewFlashRepository(client, time.Minute)
	ctx := context.Background()

	sessionID := "session-1"

	err := repo.Push(ctx, sessionID, models.FlashMessage{Category: models.FlashSuccess, Text: "x"})
	assert.NoError(t, err)
	err = repo.Push(ctx, sessionID, models.FlashMessage{Category: models.FlashError, Text: "y"})
	assert.NoError(t, err)

	messages, err := repo.Drain(ctx, sessionID)
	assert.NoError(t, err)
	assert.Equal(t, []models.FlashMessage{
		{Category: models.FlashSuccess, Text: "x"},
		{Category: models.FlashError, Text: "y"},
	}, messages)

	// Drained once, the queue is gone.
	messages, err = repo.Drain(ctx, sessionID)
	assert.NoError(t, err)
	assert.Empty(t, messages)
}

func TestFlashRepository_DrainEmptySession(t *testing.T) {
	client := setupRedisContainer(t)
	repo := NewFlashRepository(client, time.Minute)

	messages, err := repo.Drain(context.Background(), "never-seen")
	assert.NoError(t, err)
	assert.Empty(t, messages)
}

func TestFlashRepository_SessionsAreIsolated(t *testing.T) {
	client := setupRedisContainer(t)
	repo := NewFlashRepository(client, time.Minute)
	ctx := context.Background()

	err := repo.Push(ctx, "session-a", models.FlashMessage{Category: models.FlashSuccess, Text: "for a"})
	assert.NoError(t, err)

	messages, err := repo.Drain(ctx, "session-b")
	assert.NoError(t, err)
	assert.Empty(t, messages)

	messages, err = repo.Drain(ctx, "session-a")
	assert.NoError(t, err)
	assert.Len(t, messages, 1)
	assert.Equal(t, "for a", messages[0].Text)
}
