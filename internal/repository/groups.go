package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GroupsRepository handles the user_usergroup_map table.
type GroupsRepository struct {
	pool *pgxpool.Pool
}

// NewGroupsRepository creates a new groups repository
func NewGroupsRepository(pool *pgxpool.Pool) *GroupsRepository {
	return &GroupsRepository{pool: pool}
}

// MemberIDs returns the ids of all users mapped to groupID.
func (r *GroupsRepository) MemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id
		FROM user_usergroup_map
		WHERE group_id = $1
		ORDER BY user_id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// RemoveMember deletes the mapping of userID to groupID. Removing a
// non-member is not an error.
func (r *GroupsRepository) RemoveMember(ctx context.Context, userID, groupID int64) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM user_usergroup_map
		WHERE user_id = $1 AND group_id = $2
	`, userID, groupID)
	if err != nil {
		return fmt.Errorf("remove group member: %w", err)
	}
	return nil
}
