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

package mqtt

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.eurecom.fr/open-exposure/coresim/rrc-simulator/internal/models"
)

func TestTopic(t *testing.T) {
	assert.Equal(t, "rrcsim/abc/state", Topic("abc"))
}

func TestFormatPayload(t *testing.T) {
	payload, err := FormatPayload(StateChangeEvent{
		SimulationId:    "sim-1",
		ElapsedSeconds:  0.3,
		From:            models.Connected,
		To:              models.Inactive,
		Profile:         models.IoT,
		TransitionCount: 2,
		TotalEnergy:     30100,
	})
	require.NoError(t, err)

	var parsed Payload
	require.NoError(t, json.Unmarshal(payload, &parsed))
	assert.Equal(t, "sim-1", parsed.SimulationId)
	assert.Equal(t, "CONNECTED", parsed.From)
	assert.Equal(t, "INACTIVE", parsed.To)
	assert.Equal(t, "IOT", parsed.Profile)
	assert.Equal(t, int64(2), parsed.TransitionCount)
	assert.Equal(t, int64(30100), parsed.TotalEnergy)
}

func TestFakePublisher(t *testing.T) {
	fake := NewFakePublisher()
	require.NoError(t, fake.Publish(StateChangeEvent{SimulationId: "a", To: models.Connected}))
	assert.Len(t, fake.Events(), 1)
	assert.Len(t, fake.Payloads(), 1)

	fake.PublishError = errors.New("broker down")
	assert.Error(t, fake.Publish(StateChangeEvent{SimulationId: "a"}))
	assert.Len(t, fake.Events(), 1)

	require.NoError(t, fake.Close())
	assert.True(t, fake.Closed())
}

func TestNotifierPublishesOnlyChanges(t *testing.T) {
	fake := NewFakePublisher()
	n := NewNotifier(fake, "sim-1", 16)

	n.Observe(models.Snapshot{State: models.Idle})
	n.Observe(models.Snapshot{State: models.Idle})
	n.Observe(models.Snapshot{State: models.Connected, TransitionCount: 1})
	n.Observe(models.Snapshot{State: models.Connected, TransitionCount: 1})
	n.Observe(models.Snapshot{State: models.Inactive, TransitionCount: 2})
	n.Close()

	events := fake.Events()
	require.Len(t, events, 3)
	assert.Equal(t, models.Idle, events[0].From)
	assert.Equal(t, models.Idle, events[0].To)
	assert.Equal(t, models.Idle, events[1].From)
	assert.Equal(t, models.Connected, events[1].To)
	assert.Equal(t, models.Connected, events[2].From)
	assert.Equal(t, models.Inactive, events[2].To)
	assert.Equal(t, "sim-1", events[2].SimulationId)
}

func TestNotifierSameStateDifferentCount(t *testing.T) {
	fake := NewFakePublisher()
	n := NewNotifier(fake, "sim-1", 16)

	// CONNECTED -> INACTIVE -> CONNECTED within one batch
	n.Observe(models.Snapshot{State: models.Connected, TransitionCount: 1})
	n.Observe(models.Snapshot{State: models.Connected, TransitionCount: 3})
	n.Close()

	assert.Len(t, fake.Events(), 2)
}

type blockingPublisher struct {
	release chan struct{}
}

func (b *blockingPublisher) Publish(StateChangeEvent) error {
	<-b.release
	return nil
}

func (b *blockingPublisher) Close() error { return nil }

func TestNotifierDropsWhenQueueFull(t *testing.T) {
	pub := &blockingPublisher{release: make(chan struct{})}
	n := NewNotifier(pub, "sim-1", 1)

	for i := int64(1); i <= 10; i++ {
		n.Observe(models.Snapshot{State: models.Connected, TransitionCount: i})
	}
	// the worker holds at most one event and the queue one more
	assert.GreaterOrEqual(t, n.Dropped(), int64(8))

	close(pub.release)
	n.Close()
}

func TestNotifierObserveAfterClose(t *testing.T) {
	fake := NewFakePublisher()
	n := NewNotifier(fake, "sim-1", 4)
	n.Close()
	n.Close()

	assert.NotPanics(t, func() {
		n.Observe(models.Snapshot{State: models.Connected, TransitionCount: 1})
	})
	assert.Empty(t, fake.Events())
}
