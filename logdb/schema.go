// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// one row per recorded call, including calls without operations
const callTableSchema = `
create table if not exists call (
	num integer primary key,
	entrypoint text not null,
	sender text not null,
	time integer not null,
	fid integer
);
`

// operation receipts, one row per emitted operation
const opTableSchema = `
create table if not exists op (
	seq integer primary key,
	entrypoint text not null,
	sender text not null,
	time integer not null,
	fid integer,
	kind integer not null,
	tokenStandard integer not null,
	tokenContract text not null,
	tokenID integer not null,
	fromAddr text not null,
	toAddr text not null,
	amount blob,
	delegate text not null
);

CREATE INDEX if not exists fidIndex on op(fid);
CREATE INDEX if not exists fromIndex on op(fromAddr);
CREATE INDEX if not exists toIndex on op(toAddr);
`
