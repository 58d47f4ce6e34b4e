package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relaylabs/delegation-relay/types"
)

// PostgresStore persists the relay state in PostgreSQL. Addresses and
// digests are stored as lowercase hex text so the rows stay queryable by
// operators; rules columns mirror the Rules fields one to one.
//
// Schema:
//
//	CREATE TABLE delegation_rules (
//	    delegator                 TEXT NOT NULL,
//	    delegate                  TEXT NOT NULL,
//	    permissions               SMALLINT NOT NULL,
//	    max_redelegations         SMALLINT NOT NULL,
//	    not_valid_before          BIGINT NOT NULL,
//	    not_valid_after           BIGINT NOT NULL,
//	    blocks_before_vote_closes INTEGER NOT NULL,
//	    custom_rule               TEXT NOT NULL,
//	    updated_at                TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    PRIMARY KEY (delegator, delegate)
//	);
//
//	CREATE TABLE signature_approvals (
//	    proxy      TEXT NOT NULL,
//	    digest     TEXT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    PRIMARY KEY (proxy, digest)
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const getRulesQuery = `
SELECT permissions, max_redelegations, not_valid_before, not_valid_after, blocks_before_vote_closes, custom_rule
FROM delegation_rules
WHERE delegator = $1 AND delegate = $2
`

// GetRules returns the stored rules, or the zero value for unset edges.
func (s *PostgresStore) GetRules(ctx context.Context, delegator, delegate common.Address) (types.Rules, error) {
	var (
		rules          types.Rules
		permissions    int16
		maxRedel       int16
		notValidBefore int64
		notValidAfter  int64
		margin         int32
		customRule     string
	)

	row := s.pool.QueryRow(ctx, getRulesQuery, addrKey(delegator), addrKey(delegate))
	err := row.Scan(&permissions, &maxRedel, &notValidBefore, &notValidAfter, &margin, &customRule)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Unset edge: default-deny zero value.
			return types.Rules{}, nil
		}
		return types.Rules{}, fmt.Errorf("failed to get delegation rules: %w", err)
	}

	rules.Permissions = types.Permission(permissions)
	rules.MaxRedelegations = uint8(maxRedel)
	rules.NotValidBefore = uint64(notValidBefore)
	rules.NotValidAfter = uint64(notValidAfter)
	rules.BlocksBeforeVoteCloses = uint16(margin)
	rules.CustomRule = common.HexToAddress(customRule)
	return rules, nil
}

const setRulesQuery = `
INSERT INTO delegation_rules (delegator, delegate, permissions, max_redelegations, not_valid_before, not_valid_after, blocks_before_vote_closes, custom_rule, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
ON CONFLICT (delegator, delegate) DO UPDATE SET
    permissions               = EXCLUDED.permissions,
    max_redelegations         = EXCLUDED.max_redelegations,
    not_valid_before          = EXCLUDED.not_valid_before,
    not_valid_after           = EXCLUDED.not_valid_after,
    blocks_before_vote_closes = EXCLUDED.blocks_before_vote_closes,
    custom_rule               = EXCLUDED.custom_rule,
    updated_at                = now()
`

// SetRules overwrites the edge; zero rules revoke it but keep the row.
func (s *PostgresStore) SetRules(ctx context.Context, delegator, delegate common.Address, rules types.Rules) error {
	_, err := s.pool.Exec(ctx, setRulesQuery,
		addrKey(delegator),
		addrKey(delegate),
		int16(rules.Permissions),
		int16(rules.MaxRedelegations),
		int64(rules.NotValidBefore),
		int64(rules.NotValidAfter),
		int32(rules.BlocksBeforeVoteCloses),
		addrKey(rules.CustomRule),
	)
	if err != nil {
		return fmt.Errorf("failed to set delegation rules: %w", err)
	}
	return nil
}

const approveSignatureQuery = `
INSERT INTO signature_approvals (proxy, digest)
VALUES ($1, $2)
ON CONFLICT (proxy, digest) DO NOTHING
`

// ApproveSignature marks the digest approved for the proxy.
func (s *PostgresStore) ApproveSignature(ctx context.Context, proxy common.Address, digest common.Hash) error {
	_, err := s.pool.Exec(ctx, approveSignatureQuery, addrKey(proxy), digest.Hex())
	if err != nil {
		return fmt.Errorf("failed to approve signature: %w", err)
	}
	return nil
}

const isSignatureApprovedQuery = `
SELECT EXISTS (SELECT 1 FROM signature_approvals WHERE proxy = $1 AND digest = $2)
`

// IsSignatureApproved reports whether the digest was approved for the proxy.
func (s *PostgresStore) IsSignatureApproved(ctx context.Context, proxy common.Address, digest common.Hash) (bool, error) {
	var approved bool
	err := s.pool.QueryRow(ctx, isSignatureApprovedQuery, addrKey(proxy), digest.Hex()).Scan(&approved)
	if err != nil {
		return false, fmt.Errorf("failed to check signature approval: %w", err)
	}
	return approved, nil
}

// addrKey normalizes an address for use as a text key.
func addrKey(a common.Address) string {
	return a.Hex()
}
