package sysinfo

import (
	"context"
	"regexp"
	"testing"
	"time"
)

// TestFriendlyLabel tests non-alphanumeric stripping and source precedence
func TestFriendlyLabel(t *testing.T) {
	tests := []struct {
		name string
		snap DeviceSnapshot
		want string
	}{
		{
			name: "model name stripped",
			snap: DeviceSnapshot{ModelName: strPtr("iPhone 13 Pro!")},
			want: "iPhone13Pro",
		},
		{
			name: "model name preferred over device name",
			snap: DeviceSnapshot{ModelName: strPtr("ThinkPad X1"), DeviceName: strPtr("my-laptop")},
			want: "ThinkPadX1",
		},
		{
			name: "device name fallback",
			snap: DeviceSnapshot{DeviceName: strPtr("bench-01.lab")},
			want: "bench01lab",
		},
		{
			name: "nothing known",
			snap: DeviceSnapshot{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := friendlyLabel(tt.snap); got != tt.want {
				t.Errorf("friendlyLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestFriendlySuffix tests the last-6-uppercased rule and the random fallback
func TestFriendlySuffix(t *testing.T) {
	id := "0123456789xyzABC"
	if got := friendlySuffix(&id); got != "XYZABC" {
		t.Errorf("friendlySuffix() = %q, want %q", got, "XYZABC")
	}

	short := "ab1"
	if got := friendlySuffix(&short); got != "AB1" {
		t.Errorf("friendlySuffix() = %q, want %q for short identifier", got, "AB1")
	}

	random := friendlySuffix(nil)
	if !regexp.MustCompile(`^[A-Z0-9]{6}$`).MatchString(random) {
		t.Errorf("friendlySuffix(nil) = %q, want 6 uppercase alphanumerics", random)
	}
}

// TestGetUserFriendlyID_Pattern tests the assembled label shape
func TestGetUserFriendlyID_Pattern(t *testing.T) {
	p := healthyProvider()
	p.hw.ModelName = "iPhone 13 Pro!"
	svc := newWithProvider(p, nil)

	id := svc.GetUserFriendlyID(context.Background())

	if !regexp.MustCompile(`^iPhone13Pro-[A-Z0-9]{6}$`).MatchString(id) {
		t.Errorf("GetUserFriendlyID() = %q, want ^iPhone13Pro-[A-Z0-9]{6}$", id)
	}
}

// TestGetUserFriendlyID_FallbackOnFailure tests the error-fallback tier
func TestGetUserFriendlyID_FallbackOnFailure(t *testing.T) {
	svc := newWithProvider(&fakeProvider{panics: true}, nil)

	id := svc.GetUserFriendlyID(context.Background())

	prefix := platformPrefix(CurrentPlatform())
	pattern := regexp.MustCompile(`^(` + prefix + `|[A-Za-z0-9]+)-[A-Z0-9]{6}$`)
	if !pattern.MatchString(id) {
		t.Errorf("GetUserFriendlyID() = %q, want a prefixed random label", id)
	}
}

// TestGetUserFriendlyID_Bounded tests termination with a hanging provider
func TestGetUserFriendlyID_Bounded(t *testing.T) {
	svc := newWithProvider(&fakeProvider{delay: time.Minute}, nil)
	svc.callTimeout = 20 * time.Millisecond
	svc.batchTimeout = 100 * time.Millisecond

	start := time.Now()
	id := svc.GetUserFriendlyID(context.Background())
	elapsed := time.Since(start)

	if id == "" {
		t.Error("GetUserFriendlyID() must always produce a label")
	}
	if elapsed > 2*time.Second {
		t.Errorf("GetUserFriendlyID took %v, want within the batch bound", elapsed)
	}
}

// TestPlatformPrefix tests the fixed fallback mapping
func TestPlatformPrefix(t *testing.T) {
	if got := platformPrefix(PlatformIOS); got != "iOS" {
		t.Errorf("platformPrefix(ios) = %q, want iOS", got)
	}
	if got := platformPrefix(PlatformAndroid); got != "Android" {
		t.Errorf("platformPrefix(android) = %q, want Android", got)
	}
	for _, p := range []Platform{PlatformLinux, PlatformWindows, PlatformDarwin, PlatformUnknown} {
		if got := platformPrefix(p); got != "Device" {
			t.Errorf("platformPrefix(%s) = %q, want Device", p, got)
		}
	}
}

// TestRandomToken tests charset and length
func TestRandomToken(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		tok := randomToken(6)
		if !pattern.MatchString(tok) {
			t.Fatalf("randomToken() = %q, want 6 uppercase alphanumerics", tok)
		}
		seen[tok] = true
	}
	if len(seen) < 2 {
		t.Error("randomToken() produced no variation across 20 draws")
	}
}
