package http

import (
	"io"
	"net/http"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/shipyard/collision"
	"github.com/aukilabs/shipyard/ship"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/segmentio/encoding/json"
)

// ProbeRequest is a world frame ray cast against a ship.
type ProbeRequest struct {
	Origin    [3]float64 `json:"origin"`
	Direction [3]float64 `json:"direction"`
	Reach     float64    `json:"reach,omitempty"`
}

// ProbeResponse describes what a probe hit. Cells and positions are in the
// ship frame.
type ProbeResponse struct {
	Hit       bool            `json:"hit"`
	Cell      *collision.Cell `json:"cell,omitempty"`
	Occupant  int             `json:"occupant"`
	Position  *[3]float64     `json:"position,omitempty"`
	Placement *collision.Cell `json:"placement,omitempty"`
}

// HandleProbe casts the requested ray against the ship interior. Requests
// without reach use defaultReach.
func HandleProbe(interior *ship.Interior, defaultReach float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		b, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusInternalServerError, errors.New("reading body failed").Wrap(err))
			return
		}

		var req ProbeRequest
		if err := json.Unmarshal(b, &req); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid probe request").Wrap(err))
			return
		}

		direction := mgl64.Vec3(req.Direction)
		if direction.LenSqr() == 0 {
			writeError(w, http.StatusBadRequest, errors.New("probe direction is zero"))
			return
		}
		reach := req.Reach
		if reach <= 0 {
			reach = defaultReach
		}

		origin := mgl64.Vec3(req.Origin)
		segment := collision.Segment(origin, direction.Normalize().Mul(reach))

		res := ProbeResponse{Occupant: collision.Empty}
		report := interior.Check(collision.Package{Collider: segment})
		if report.Collision() {
			position := [3]float64(report.Positions[0])
			res.Position = &position
		}
		if c, id, ok := interior.PickCell(segment); ok {
			res.Hit = true
			res.Cell = &c
			res.Occupant = id
		}
		if c, ok := interior.PlacementCell(origin, direction, reach); ok {
			res.Placement = &c
		}

		logs.WithTag("interior_id", interior.ID).
			WithTag("origin", req.Origin).
			WithTag("direction", req.Direction).
			WithTag("hit", res.Hit).
			Debug("ship probed")
		writeJSON(w, http.StatusOK, res)
	}
}
