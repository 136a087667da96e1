package postgres

import "context"

func (s *Store) Add(ctx context.Context, domain string) error {
	const q = `INSERT INTO ignores (domain) VALUES ($1) ON CONFLICT (domain) DO NOTHING`
	_, err := s.pool.Exec(ctx, q, domain)
	return err
}

func (s *Store) Remove(ctx context.Context, domain string) error {
	const q = `DELETE FROM ignores WHERE domain=$1`
	_, err := s.pool.Exec(ctx, q, domain)
	return err
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	const q = `SELECT domain FROM ignores ORDER BY domain`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
