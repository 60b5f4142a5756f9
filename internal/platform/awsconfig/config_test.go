package awsconfig

import (
	"context"
	"testing"
)

func TestLoad_DefaultsRegion(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	cfg, err := Load(context.Background(), "  ")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if cfg.Region != DefaultRegion {
		t.Fatalf("region = %q, want %q", cfg.Region, DefaultRegion)
	}
}

func TestLoad_UsesGivenRegion(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	cfg, err := Load(context.Background(), "sa-east-1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if cfg.Region != "sa-east-1" {
		t.Fatalf("region = %q", cfg.Region)
	}
}
