// Copyright 2025 EURECOM
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Contributors:
//   Giulio CAROTA
//   Thomas DU
//   Adlen KSENTINI

package simulator

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rrcsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulationProfile:\n  trafficProfile: IOT\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []string
	err := WatchConfig(ctx, path, func(cfg *AppConfig) {
		if cfg.SimConfig == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, cfg.SimConfig.TrafficProfile)
	})
	require.NoError(t, err)

	// files next to the config are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("oamPort: 1"), 0o644))
	// invalid versions are skipped
	require.NoError(t, os.WriteFile(path, []byte("simulationProfile:\n  trafficProfile: GAMING\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("simulationProfile:\n  trafficProfile: STREAMING\n"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1] == "STREAMING"
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.NotContains(t, seen, "GAMING")
	mu.Unlock()
}

func TestWatchConfigMissingDirectory(t *testing.T) {
	err := WatchConfig(context.Background(), filepath.Join(t.TempDir(), "nope", "rrcsim.yaml"), func(*AppConfig) {})
	assert.Error(t, err)
}
