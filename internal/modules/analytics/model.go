// README: Read-only analytics shapes derived per profile on demand.
package analytics

import "time"

// ClosedTrip is the slice of a closed request the distance aggregation needs.
type ClosedTrip struct {
	StartLocation string
	EndLocation   string
	CreatedAt     time.Time
}

// DateDistance is the summed travel distance for all trips created on a date.
type DateDistance struct {
	Date   string `json:"date"`
	Meters int64  `json:"meters"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type Stats struct {
	CompletedTrips        int            `json:"completedTrips"`
	TripsAccepted         int            `json:"tripsAccepted"`
	CancellationRate      float64        `json:"cancellationRate"`
	DistanceByDate        []DateDistance `json:"distanceByDate"`
	PreferredRequestTypes []TypeCount    `json:"preferredRequestTypes"`
}
