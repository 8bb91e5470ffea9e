package state

import (
	"context"
	"testing"
	"time"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if env.Uptime() < 0 || env.Uptime() > time.Minute {
		t.Errorf("Uptime() = %v", env.Uptime())
	}
}

func TestEnvFromContextPanicsWithoutEnv(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for context without environment")
		}
	}()
	EnvFromContext(context.Background())
}
