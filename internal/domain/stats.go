package domain

type Stats struct {
	TotalTours      int   `json:"total_tours"`
	TotalBookings   int   `json:"total_bookings"`
	TotalRevenue    Money `json:"total_revenue"`
	PendingBookings int   `json:"pending_bookings"`
}

// ComputeStats summarises an admin's tours and the bookings on them.
// Revenue is Σ snapshot price × people, in minor units, so the result does
// not depend on booking order. A booking without a snapshot adds nothing.
func ComputeStats(tours []Tour, bookings []Booking) Stats {
	s := Stats{TotalTours: len(tours), TotalBookings: len(bookings)}
	for _, b := range bookings {
		if b.Status == BookingPending {
			s.PendingBookings++
		}
		if b.Tour != nil {
			s.TotalRevenue += b.Tour.Price * Money(b.NumberOfPeople)
		}
	}
	return s
}

type TourGroup struct {
	TourID         int64     `json:"tour_id"`
	TourName       string    `json:"tour_name"`
	Bookings       []Booking `json:"bookings"`
	CanCompleteAll bool      `json:"can_complete_all"`
}

// GroupBookingsByTour partitions bookings by tour, in tour order. Tours with
// no bookings are left out, as are bookings on tours not in the list.
func GroupBookingsByTour(tours []Tour, bookings []Booking) []TourGroup {
	byTour := make(map[int64][]Booking, len(tours))
	for _, b := range bookings {
		byTour[b.TourID] = append(byTour[b.TourID], b)
	}

	groups := make([]TourGroup, 0, len(byTour))
	for _, t := range tours {
		bs, ok := byTour[t.ID]
		if !ok {
			continue
		}
		delete(byTour, t.ID)
		groups = append(groups, TourGroup{
			TourID:         t.ID,
			TourName:       t.Name,
			Bookings:       bs,
			CanCompleteAll: CanCompleteAll(bs),
		})
	}
	return groups
}

// CanCompleteAll is true when at least one booking is confirmed and not every
// booking is already completed.
func CanCompleteAll(bookings []Booking) bool {
	confirmed, completed := 0, 0
	for _, b := range bookings {
		switch b.Status {
		case BookingConfirmed:
			confirmed++
		case BookingCompleted:
			completed++
		}
	}
	return confirmed > 0 && completed < len(bookings)
}

// Dashboard is everything the admin console renders in one read.
type Dashboard struct {
	Profile  *Profile    `json:"profile"`
	Tours    []Tour      `json:"tours"`
	Bookings []Booking   `json:"bookings"`
	Stats    Stats       `json:"stats"`
	Groups   []TourGroup `json:"groups"`
}
