// Package sharelink encodes a full plan snapshot into a URL fragment and
// replays decoded snapshots back into a session. Replay always goes through
// the store's add operations, never direct field injection, so identity and
// numbering invariants hold in the receiving session: IDs and numbers are
// reassigned fresh, only geometry, attributes, settings and camera travel.
package sharelink

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pyroplan/siteplan/internal/store"
	"github.com/pyroplan/siteplan/pkg/core"
)

// versionPrefix tags the fragment format so future encodings can coexist.
const versionPrefix = "v1."

// ErrBadFragment is returned when a fragment is not a valid share link.
var ErrBadFragment = fmt.Errorf("not a valid share link fragment")

// Encode serializes a snapshot into a compact URL fragment.
func Encode(snap store.Snapshot) (string, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("compressing snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compressing snapshot: %w", err)
	}

	return versionPrefix + base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode parses a URL fragment produced by Encode.
func Decode(fragment string) (store.Snapshot, error) {
	if !strings.HasPrefix(fragment, versionPrefix) {
		return store.Snapshot{}, ErrBadFragment
	}

	compressed, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(fragment, versionPrefix))
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("%w: %v", ErrBadFragment, err)
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("%w: %v", ErrBadFragment, err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("%w: %v", ErrBadFragment, err)
	}
	if err := zr.Close(); err != nil {
		return store.Snapshot{}, fmt.Errorf("%w: %v", ErrBadFragment, err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("%w: %v", ErrBadFragment, err)
	}
	return snap, nil
}

// Replay feeds a decoded snapshot into a store through its public add
// operations, in display-number order so renumbered sessions keep the
// original relative ordering. Settings and camera are applied first so
// height extrusions reconcile against the shared show-height state.
func Replay(s *store.Store, snap store.Snapshot) error {
	s.SetUnits(snap.Settings.Units)
	s.SetSafetyDistance(snap.Settings.SafetyDistance)
	s.SetShowHeight(snap.Settings.ShowHeight)
	s.SetCamera(snap.Camera)

	for _, rec := range snap.Annotations {
		payload := store.FireworkPayload{
			Position:      rec.Position,
			Color:         rec.Color,
			Label:         rec.Label,
			HeightFeet:    rec.HeightFeet,
			HeightVisible: rec.HeightVisible,
		}
		switch rec.Category {
		case core.CategoryCustom:
			s.AddCustom(payload)
		default:
			s.AddFirework(payload)
		}
	}
	for _, rec := range snap.Audiences {
		if _, err := s.AddAudience(store.AudiencePayload{
			Geometry:   rec.Geometry,
			WidthFeet:  rec.WidthFeet,
			HeightFeet: rec.HeightFeet,
			Label:      rec.Label,
		}); err != nil {
			return fmt.Errorf("replaying audience %q: %w", rec.Label, err)
		}
	}
	for _, rec := range snap.Measurements {
		if _, err := s.AddMeasurement(store.MeasurementPayload{
			Geometry: rec.Geometry,
			Label:    rec.Label,
		}); err != nil {
			return fmt.Errorf("replaying measurement %q: %w", rec.Label, err)
		}
	}
	for _, rec := range snap.Restricted {
		if _, err := s.AddRestricted(store.RestrictedPayload{
			Geometry: rec.Geometry,
			Label:    rec.Label,
		}); err != nil {
			return fmt.Errorf("replaying restricted zone %q: %w", rec.Label, err)
		}
	}
	return nil
}
