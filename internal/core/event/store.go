// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"context"

	"github.com/taibuivan/campus/pkg/pagination"
)

// Repository defines the persistence operations for events.
type Repository interface {
	Create(ctx context.Context, event *Event) error
	FindByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, page pagination.Params) ([]*Event, int, error)

	// RecordStatistics stores the delivery counts once the fan-out finished.
	RecordStatistics(ctx context.Context, id string, statistics Statistics) error
}
