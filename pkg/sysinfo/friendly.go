package sysinfo

import (
	"context"
	"crypto/rand"
	"regexp"
	"strings"
	"sync"

	"github.com/quarry-io/deviceinfo/pkg/guard"
)

const tokenCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// GetUserFriendlyID derives a short human-readable device label. It always
// succeeds, degrading through three tiers: (1) web platforms get a random
// WebUser label immediately; (2) otherwise the device snapshot and the
// persistent identifier are fetched concurrently under one shared bound, and
// a model-derived label plus identifier-derived suffix is returned; (3) on
// any failure or timeout, a platform-prefixed random label.
func (s *Service) GetUserFriendlyID(ctx context.Context) string {
	if CurrentPlatform() == PlatformWeb {
		return "WebUser-" + randomToken(6)
	}

	type fetched struct {
		snap DeviceSnapshot
		id   *string
	}

	timeout := s.batchTimeout
	if timeout <= 0 {
		timeout = guard.DefaultBatchTimeout
	}

	res, ok := guard.WithTimeout(ctx, timeout, func(ctx context.Context) (fetched, error) {
		var f fetched
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			f.snap = s.GetDeviceInfo(ctx)
		}()
		go func() {
			defer wg.Done()
			f.id = GetDeviceID(ctx)
		}()
		wg.Wait()
		return f, nil
	})

	if ok {
		if label := friendlyLabel(res.snap); label != "" {
			return label + "-" + friendlySuffix(res.id)
		}
	}

	return platformPrefix(CurrentPlatform()) + "-" + randomToken(6)
}

// friendlyLabel strips the model or device name down to alphanumerics.
func friendlyLabel(snap DeviceSnapshot) string {
	var source string
	switch {
	case snap.ModelName != nil && *snap.ModelName != "":
		source = *snap.ModelName
	case snap.DeviceName != nil && *snap.DeviceName != "":
		source = *snap.DeviceName
	}
	return nonAlphanumeric.ReplaceAllString(source, "")
}

// friendlySuffix is the uppercased last 6 characters of the identifier, or
// a random token when no identifier resolved.
func friendlySuffix(id *string) string {
	if id != nil && *id != "" {
		suffix := *id
		if len(suffix) > 6 {
			suffix = suffix[len(suffix)-6:]
		}
		return strings.ToUpper(suffix)
	}
	return randomToken(6)
}

// platformPrefix is the fixed error-fallback label prefix.
func platformPrefix(p Platform) string {
	switch p {
	case PlatformIOS:
		return "iOS"
	case PlatformAndroid:
		return "Android"
	default:
		return "Device"
	}
}

// randomToken returns n random characters from the uppercase alphanumeric
// charset. Falls back to a fixed filler if the system randomness source is
// unreadable; the label is display-only and must never fail.
func randomToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return strings.Repeat("0", n)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = tokenCharset[int(b)%len(tokenCharset)]
	}
	return string(out)
}
