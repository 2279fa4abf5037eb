// Copyright (c) 2025 The VeChainThor developers
// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// Authorization
var (
	ErrNotAdmin        = New("Not-admin")
	ErrNotPendingAdmin = New("Not-pending-admin")
	ErrNotOperator     = New("FA2_NOT_OPERATOR")
	ErrNotOwner        = New("FA2_NOT_OWNER")
	ErrNotMinter       = New("ProxyMinter/not-minter")
)

// Existence
var (
	ErrFarmNotSet = New("QSystem/farm-not-set")
)

// State validity
var (
	ErrFarmPaused       = New("Farm/farm-is-paused")
	ErrFarmFinished     = New("Farm/farm-work-time-is-finished")
	ErrWrongEndTime     = New("Farm/wrong-end-time")
	ErrWrongTimelock    = New("Farm/wrong-timelock")
	ErrWrongRewardRate  = New("Farm/wrong-reward-per-second")
	ErrWrongFee         = New("Farm/wrong-fee")
	ErrWrongFarmKind    = New("Farm/wrong-farm-kind")
	ErrBakerBanned      = New("Farm/baker-is-banned")
	ErrNotLPFarm        = New("QSystem/not-LP-farm")
	ErrUnsupportedToken = New("Token/unsupported-standard")
)

// Balance and identity
var (
	ErrBalanceTooLow       = New("Farm/balance-too-low")
	ErrInsufficientBalance = New("Token/insufficient-balance")
	ErrNotEnoughAllowance  = New("Token/not-enough-allowance")
	ErrFA2InsufficientBal  = New("FA2_INSUFFICIENT_BALANCE")
	ErrIllegalTransfer     = New("FA2_ILLEGAL_TRANSFER")
	ErrTimelockNotFinished = New("FA2_TIMELOCK_NOT_FINISHED")
	ErrCanNotReferYourself = New("Farm/can-not-refer-yourself")
)
