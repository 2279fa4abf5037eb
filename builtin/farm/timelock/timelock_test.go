// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package timelock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinished(t *testing.T) {
	tests := []struct {
		name       string
		lastStaked uint64
		timelock   uint64
		now        uint64
		want       bool
	}{
		{"no timelock", 100, 0, 100, true},
		{"exactly elapsed", 100, 60, 160, true},
		{"not elapsed", 100, 60, 159, false},
		{"never staked", 0, 60, 1000, true},
		{"clock behind", 200, 0, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Finished(tt.lastStaked, tt.timelock, tt.now))
		})
	}
}
