package query

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
	"github.com/mrrabbitte/pooly/internal/domain/query"
	"github.com/mrrabbitte/pooly/internal/services/pool"
)

var errNoStatementDescriber = errors.New("connection cannot describe statement parameter types")

// accessControl narrows access.AccessControlService to what QueryService
// needs.
type accessControl interface {
	IsAllowed(clientID, connectionID string) (bool, error)
}

// QueryService authorizes, checks out a pooled connection for, and executes
// client-submitted statements against backend PostgreSQL databases.
type QueryService struct {
	access accessControl
	pools  *pool.ConnectionPoolRegistry
}

// NewQueryService builds a QueryService over access and pools.
func NewQueryService(access accessControl, pools *pool.ConnectionPoolRegistry) *QueryService {
	return &QueryService{access: access, pools: pools}
}

// Query authorizes clientID against req.ConnectionID, checks out a pooled
// connection, executes req.Query with req.Params, and returns the decoded
// result set.
func (s *QueryService) Query(ctx context.Context, clientID string, req query.Request) (query.Response, error) {
	if err := s.authorize(clientID, req.ConnectionID); err != nil {
		return query.Response{}, err
	}

	conn, err := s.pools.Get(ctx, req.ConnectionID)
	if err != nil {
		return query.Response{}, err
	}
	defer conn.Release()

	return s.execute(ctx, conn.Conn(), req.Query, req.Params)
}

func (s *QueryService) execute(ctx context.Context, conn queryExecer, sql string, params []query.Value) (query.Response, error) {
	args, err := resolveArgs(ctx, conn, sql, params)
	if err != nil {
		return query.Response{}, err
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return query.Response{}, poolyerrors.WrapPostgresError(err)
	}

	columnNames, resultRows, err := ConvertRows(rows)
	if err != nil {
		return query.Response{}, err
	}

	return query.Response{ColumnNames: columnNames, Rows: resultRows}, nil
}

// queryExecer narrows the pgx surface QueryService needs: a plain
// connection checkout and a transaction both satisfy it.
type queryExecer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// resolveArgs prepares sql to discover its expected parameter OIDs, then
// converts params against them.
func resolveArgs(ctx context.Context, conn queryExecer, sql string, params []query.Value) ([]any, error) {
	describer, ok := conn.(statementDescriber)
	if !ok {
		return nil, poolyerrors.WrapPostgresError(errNoStatementDescriber)
	}

	sd, err := describer.Prepare(ctx, "", sql)
	if err != nil {
		return nil, poolyerrors.WrapPostgresError(err)
	}

	oids := make([]uint32, len(sd.ParamOIDs))
	for i, oid := range sd.ParamOIDs {
		oids[i] = oid
	}

	return ConvertParams(oids, params)
}

// statementDescriber is satisfied by *pgx.Conn and pgx.Tx, which can
// prepare a named statement and report its inferred parameter OIDs.
type statementDescriber interface {
	Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error)
}

// BulkTx authorizes clientID against req.ConnectionID, then runs every
// statement body in req.Queries in sequence inside one transaction on a
// single checked-out connection, committing on success and rolling back on
// the first error.
func (s *QueryService) BulkTx(ctx context.Context, clientID string, req query.BulkRequest) (query.BulkResponse, error) {
	if err := s.authorize(clientID, req.ConnectionID); err != nil {
		return query.BulkResponse{}, err
	}

	conn, err := s.pools.Get(ctx, req.ConnectionID)
	if err != nil {
		return query.BulkResponse{}, err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return query.BulkResponse{}, poolyerrors.WrapPostgresError(err)
	}

	results, err := s.runBulkBody(ctx, tx, req.Queries)
	if err != nil {
		_ = tx.Rollback(ctx)

		return query.BulkResponse{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return query.BulkResponse{}, poolyerrors.WrapPostgresError(err)
	}

	return query.BulkResponse{Results: results}, nil
}

func (s *QueryService) runBulkBody(ctx context.Context, tx pgx.Tx, bodies []query.StatementBody) ([]query.Response, error) {
	results := make([]query.Response, 0, len(bodies))

	for _, body := range bodies {
		batch := &pgx.Batch{}

		for _, row := range body.Params {
			args, err := resolveArgs(ctx, tx, body.Query, row)
			if err != nil {
				return nil, err
			}

			batch.Queue(body.Query, args...)
		}

		br := tx.SendBatch(ctx, batch)

		for range body.Params {
			rows, err := br.Query()
			if err != nil {
				_ = br.Close()

				return nil, poolyerrors.WrapPostgresError(err)
			}

			columnNames, resultRows, err := ConvertRows(rows)
			if err != nil {
				_ = br.Close()

				return nil, err
			}

			results = append(results, query.Response{ColumnNames: columnNames, Rows: resultRows})
		}

		if err := br.Close(); err != nil {
			return nil, poolyerrors.WrapPostgresError(err)
		}
	}

	return results, nil
}

func (s *QueryService) authorize(clientID, connectionID string) error {
	allowed, err := s.access.IsAllowed(clientID, connectionID)
	if err != nil {
		return poolyerrors.WrapStorageError(err)
	}

	if !allowed {
		return poolyerrors.NewForbiddenConnectionId(connectionID)
	}

	return nil
}
