package store

import "context"

func (s *Store) CreateUser(ctx context.Context, name, apiKey string) (string, error) {
	id := NewID()
	hash := HashAPIKey(apiKey)
	_, err := s.Pool.Exec(ctx, `INSERT INTO users (id, name, api_key_hash) VALUES ($1,$2,$3)`, id, name, hash)
	return id, err
}

func (s *Store) GetUserByAPIKey(ctx context.Context, apiKey string) (*User, error) {
	hash := HashAPIKey(apiKey)
	row := s.Pool.QueryRow(ctx, `SELECT id, name, api_key_hash, created_at FROM users WHERE api_key_hash = $1`, hash)
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.APIKeyHash, &u.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, name, api_key_hash, created_at FROM users WHERE id = $1`, id)
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.APIKeyHash, &u.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `SELECT id, name, api_key_hash, created_at FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.APIKeyHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
