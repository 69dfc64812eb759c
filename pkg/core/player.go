package core

// Player represents one connected player as reported by the dedicated server.
// UserID is the stable identity that persists across polls; everything else
// may change between snapshots.
type Player struct {
	UserID   string  `json:"userId"`
	PlayerID string  `json:"playerId,omitempty"`
	Name     string  `json:"name"`
	Level    int     `json:"level,omitempty"`
	Ping     float64 `json:"ping,omitempty"`
	Location Position2D
}

// playerJSON mirrors the upstream wire format, which carries the position as
// flat location_x/location_y fields rather than a nested object.
type playerJSON struct {
	UserID    string  `json:"userId"`
	PlayerID  string  `json:"playerId,omitempty"`
	Name      string  `json:"name"`
	Level     int     `json:"level,omitempty"`
	Ping      float64 `json:"ping,omitempty"`
	LocationX float64 `json:"location_x"`
	LocationY float64 `json:"location_y"`
}

// MarshalJSON emits the upstream wire format.
func (p Player) MarshalJSON() ([]byte, error) {
	return marshalJSON(playerJSON{
		UserID:    p.UserID,
		PlayerID:  p.PlayerID,
		Name:      p.Name,
		Level:     p.Level,
		Ping:      p.Ping,
		LocationX: p.Location.X,
		LocationY: p.Location.Y,
	})
}

// UnmarshalJSON accepts the upstream wire format.
func (p *Player) UnmarshalJSON(data []byte) error {
	var w playerJSON
	if err := unmarshalJSON(data, &w); err != nil {
		return err
	}
	*p = Player{
		UserID:   w.UserID,
		PlayerID: w.PlayerID,
		Name:     w.Name,
		Level:    w.Level,
		Ping:     w.Ping,
		Location: Position2D{X: w.LocationX, Y: w.LocationY},
	}
	return nil
}

// ServerInfo holds the subset of /v1/api/info the map page cares about.
type ServerInfo struct {
	Servername  string `json:"servername,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
}
