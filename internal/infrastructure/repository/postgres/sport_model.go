package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/matchbook-app/matchbook/internal/domain/sport"
)

type sportTableModel struct {
	ID        int64      `db:"id"`
	Code      string     `db:"code"`
	Name      string     `db:"name"`
	Positions []byte     `db:"positions"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type positionColumnModel struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	DefaultQuota int    `json:"defaultQuota"`
}

func (m sportTableModel) toDomain() (sport.Sport, error) {
	var cols []positionColumnModel
	if len(m.Positions) > 0 {
		if err := sonic.Unmarshal(m.Positions, &cols); err != nil {
			return sport.Sport{}, fmt.Errorf("decode positions for sport %s: %w", m.Code, err)
		}
	}

	positions := make([]sport.Position, 0, len(cols))
	for _, c := range cols {
		positions = append(positions, sport.Position{
			Code:         c.Code,
			Name:         c.Name,
			DefaultQuota: c.DefaultQuota,
		})
	}

	return sport.Sport{
		Code:      m.Code,
		Name:      m.Name,
		Positions: positions,
	}, nil
}

func encodePositions(item sport.Sport) ([]byte, error) {
	cols := make([]positionColumnModel, 0, len(item.Positions))
	for _, p := range item.Positions {
		cols = append(cols, positionColumnModel{
			Code:         p.Code,
			Name:         p.Name,
			DefaultQuota: p.DefaultQuota,
		})
	}

	encoded, err := sonic.Marshal(cols)
	if err != nil {
		return nil, fmt.Errorf("encode positions for sport %s: %w", item.Code, err)
	}

	return encoded, nil
}
