// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"math"
	"math/big"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/quipuswap/farmland/builtin/farm"
	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/tez"
)

const insertCallQuery = "INSERT INTO call(num, entrypoint, sender, time, fid) VALUES (?, ?, ?, ?, ?)"
const insertOpQuery = "INSERT INTO op(seq, entrypoint, sender, time, fid, kind, tokenStandard, tokenContract, tokenID, fromAddr, toAddr, amount, delegate) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string

	lock     sync.Mutex
	lastCall uint32
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// an in-memory database lives as long as its connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(callTableSchema + opTableSchema); err != nil {
		return nil, err
	}

	var maxNum sql.NullInt64
	if err := db.QueryRow("SELECT MAX(num) FROM call").Scan(&maxNum); err != nil {
		return nil, err
	}
	var last uint32
	if maxNum.Valid {
		last = uint32(maxNum.Int64)
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		lastCall:      last,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// LastCall returns the number of the last recorded call, 0 if none.
func (db *LogDB) LastCall() uint32 {
	db.lock.Lock()
	defer db.lock.Unlock()
	return db.lastCall
}

func (db *LogDB) execInTx(ctx context.Context, proc func(*sql.Tx) error) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Insert records the operations of a call under the next call number and
// returns that number. Calls without operations are still numbered.
func (db *LogDB) Insert(ctx context.Context, call *Call) (uint32, error) {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.lastCall == math.MaxUint32 {
		return 0, errors.New("call number overflow")
	}
	num := db.lastCall + 1

	var fid any
	if call.FID != nil {
		fid = int64(*call.FID)
	}
	err := db.execInTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertCallQuery,
			int64(num),
			call.Entrypoint,
			call.Sender.String(),
			int64(call.Time),
			fid,
		); err != nil {
			return errors.Wrap(err, "insert call")
		}
		if len(call.Ops) == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, insertOpQuery)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, op := range call.Ops {
			var amount []byte
			if op.Amount != nil {
				amount = op.Amount.Bytes()
			}
			if _, err := stmt.ExecContext(ctx,
				int64(newSequence(num, uint32(i))),
				call.Entrypoint,
				call.Sender.String(),
				int64(call.Time),
				fid,
				int(op.Kind),
				int(op.Token.Standard),
				op.Token.Contract.String(),
				int64(op.Token.ID),
				op.From.String(),
				op.To.String(),
				amount,
				op.Delegate.String(),
			); err != nil {
				return errors.Wrapf(err, "insert op %d", i)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	db.lastCall = num
	metricInsertedOps().Add(int64(len(call.Ops)))
	metricLastCall().Set(int64(num))
	return num, nil
}

// Filter queries recorded operations.
func (db *LogDB) Filter(ctx context.Context, filter *Filter) ([]*Record, error) {
	const head = "SELECT seq, entrypoint, sender, time, fid, kind, tokenStandard, tokenContract, tokenID, fromAddr, toAddr, amount, delegate FROM op"
	if filter == nil {
		return db.query(ctx, head+" ORDER BY seq ASC")
	}
	metricsHandleFilter(filter)

	var args []any
	stmt := head + " WHERE 1"
	if filter.FID != nil {
		args = append(args, int64(*filter.FID))
		stmt += " AND fid = ? "
	}
	if filter.Address != nil {
		addr := filter.Address.String()
		args = append(args, addr, addr)
		stmt += " AND (fromAddr = ? OR toAddr = ?) "
	}
	if filter.Kind != nil {
		args = append(args, int(*filter.Kind))
		stmt += " AND kind = ? "
	}
	if filter.Range != nil {
		args = append(args, int64(newSequence(filter.Range.From, 0)))
		stmt += " AND seq >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, int64(newSequence(filter.Range.To, math.MaxInt32)))
			stmt += " AND seq <= ? "
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, stmt, args...)
}

func parseAddress(s string) (tez.Address, error) {
	if s == "" {
		return tez.Address{}, nil
	}
	return tez.ParseAddress(s)
}

func (db *LogDB) query(ctx context.Context, stmt string, args ...any) ([]*Record, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq           int64
			entrypoint    string
			sender        string
			time          int64
			fid           sql.NullInt64
			kind          int
			standard      int
			tokenContract string
			tokenID       int64
			from          string
			to            string
			amount        []byte
			delegate      string
		)
		if err := rows.Scan(
			&seq,
			&entrypoint,
			&sender,
			&time,
			&fid,
			&kind,
			&standard,
			&tokenContract,
			&tokenID,
			&from,
			&to,
			&amount,
			&delegate,
		); err != nil {
			return nil, err
		}

		rec := &Record{
			Call:       sequence(seq).Call(),
			Index:      sequence(seq).Index(),
			Entrypoint: entrypoint,
			Time:       uint64(time),
			Op: farm.Operation{
				Kind:   farm.OperationKind(kind),
				Amount: new(big.Int).SetBytes(amount),
				Token: token.Token{
					Standard: token.Standard(standard),
					ID:       uint64(tokenID),
				},
			},
		}
		if fid.Valid {
			v := uint64(fid.Int64)
			rec.FID = &v
		}
		for _, f := range []struct {
			dst *tez.Address
			src string
		}{
			{&rec.Sender, sender},
			{&rec.Op.Token.Contract, tokenContract},
			{&rec.Op.From, from},
			{&rec.Op.To, to},
			{&rec.Op.Delegate, delegate},
		} {
			if *f.dst, err = parseAddress(f.src); err != nil {
				return nil, errors.Wrap(err, "decode address")
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
