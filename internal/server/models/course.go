package models

import "time"

// Course is a catalog entry. Price is kept in minor currency units.
type Course struct {
	ID          int64
	Name        string
	Description string
	Price       int64
	Deleted     bool
	CreatedAt   time.Time

	// Views counts distinct users who opened the course. Only reads that
	// report views fill it.
	Views int64
}

// CourseSales is how many live payments a course has.
type CourseSales struct {
	CourseID int64
	Sold     int64
}

func (c *Course) GetID() int64 { return c.ID }
