package domain

// CourierStatus represents the availability of a courier.
type CourierStatus string

// Courier represents a delivery courier and the area it is willing to serve.
type Courier struct {
	ID     int64
	ChatID int64
	Name   string
	Phone  string
	Status CourierStatus
	// Location is the last known courier position, nil when unknown.
	Location *Coordinate
	Radius   Radius
}

// Dispatchable reports whether the courier may receive new offers.
func (c Courier) Dispatchable() bool {
	return c.Status == StatusAvailable && c.ChatID != 0
}

// PartialCourierUpdate carries optional fields to update a courier.
// A nil field means “do not change” that attribute.
type PartialCourierUpdate struct {
	ID       int64
	Name     *string
	Phone    *string
	ChatID   *int64
	Status   *CourierStatus
	Location *Coordinate
	Radius   *Radius
}

// Empty reports whether the update changes nothing.
func (u PartialCourierUpdate) Empty() bool {
	return u.Name == nil && u.Phone == nil && u.ChatID == nil &&
		u.Status == nil && u.Location == nil && u.Radius == nil
}
