// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package timelock decides whether a position may collect its reward.
package timelock

// Finished returns whether timelock seconds have passed since lastStaked.
func Finished(lastStaked, timelock, now uint64) bool {
	return now >= lastStaked && now-lastStaked >= timelock
}
