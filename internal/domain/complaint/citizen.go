package complaint

import (
	"fmt"
	"strings"
	"time"
)

// UpvoteRewardPoints is credited to a complaint's owner for every upvote.
const UpvoteRewardPoints = 5

// Citizen is the reward account of a complaint owner.
type Citizen struct {
	id        uint
	name      string
	points    int
	createdAt time.Time
	updatedAt time.Time
}

func NewCitizen(id uint, name string) (*Citizen, error) {
	if id == 0 {
		return nil, fmt.Errorf("citizen ID cannot be zero")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("citizen name is required")
	}
	now := time.Now().UTC()
	return &Citizen{id: id, name: name, createdAt: now, updatedAt: now}, nil
}

func ReconstructCitizen(id uint, name string, points int, createdAt, updatedAt time.Time) (*Citizen, error) {
	if id == 0 {
		return nil, fmt.Errorf("citizen ID cannot be zero")
	}
	return &Citizen{id: id, name: name, points: points, createdAt: createdAt, updatedAt: updatedAt}, nil
}

func (c *Citizen) ID() uint {
	return c.id
}

func (c *Citizen) Name() string {
	return c.name
}

func (c *Citizen) Points() int {
	return c.points
}

func (c *Citizen) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Citizen) UpdatedAt() time.Time {
	return c.updatedAt
}
