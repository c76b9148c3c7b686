package ship

import (
	"io"
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/shipyard/models"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/segmentio/encoding/json"
)

// SaveInterior is the saved form of an interior.
type SaveInterior struct {
	ID     string     `json:"id"`
	Pose   SavePose   `json:"pose"`
	Parts  []SavePart `json:"parts"`
	Panels []Panel    `json:"panels,omitempty"`
}

type SavePose struct {
	Position    [3]float64 `json:"position"`
	Orientation [4]float64 `json:"orientation"`
}

// SavePart is a placed part saved as its blocks relative to its layout.
type SavePart struct {
	Model   string   `json:"model"`
	Offsets []Layout `json:"offsets"`
	Layout  Layout   `json:"layout"`
}

// Save returns the saved form of the interior.
func (i *Interior) Save() SaveInterior {
	pose := i.Body.Pose()
	save := SaveInterior{
		ID: i.ID,
		Pose: SavePose{
			Position: pose.Position,
			Orientation: [4]float64{
				pose.Orientation.W,
				pose.Orientation.X(),
				pose.Orientation.Y(),
				pose.Orientation.Z(),
			},
		},
	}

	for _, p := range i.Parts() {
		save.Parts = append(save.Parts, SavePart{
			Model:   p.Part.Model(),
			Offsets: p.Part.Blocks(Layout{}),
			Layout:  p.Layout,
		})
	}
	for _, p := range i.Panels() {
		save.Panels = append(save.Panels, p.Panel)
	}
	return save
}

// Load builds an interior from its saved form. Parts and panels are placed
// again in their saved order.
func Load(s SaveInterior) (*Interior, error) {
	orientation := mgl64.Quat{
		W: s.Pose.Orientation[0],
		V: mgl64.Vec3{s.Pose.Orientation[1], s.Pose.Orientation[2], s.Pose.Orientation[3]},
	}
	if orientation.Len() == 0 {
		orientation = mgl64.QuatIdent()
	}

	i := NewInterior(models.NewBody(models.Pose{
		Position:    s.Pose.Position,
		Orientation: orientation,
	}))
	if s.ID != "" {
		i.ID = s.ID
	}

	for n, p := range s.Parts {
		if len(p.Offsets) == 0 {
			return nil, errors.New("part without blocks").
				WithType(ErrTypeInvalidSave).
				WithTag("index", n).
				WithTag("model", p.Model)
		}
		if !p.Layout.Orientation.Valid() {
			return nil, errors.New("invalid part orientation").
				WithType(ErrTypeInvalidSave).
				WithTag("index", n).
				WithTag("orientation", p.Layout.Orientation)
		}
		for _, o := range p.Offsets {
			if !o.Orientation.Valid() {
				return nil, errors.New("invalid block orientation").
					WithType(ErrTypeInvalidSave).
					WithTag("index", n).
					WithTag("orientation", o.Orientation)
			}
		}

		part := BlockPart{Name: p.Model, Offsets: p.Offsets}
		if _, err := i.AddPart(part, p.Layout); err != nil {
			i.Close()
			return nil, errors.New("loading part failed").
				WithType(ErrTypeInvalidSave).
				WithTag("index", n).
				Wrap(err)
		}
	}

	for n, p := range s.Panels {
		if _, err := i.AddPanel(p); err != nil {
			i.Close()
			return nil, errors.New("loading panel failed").
				WithType(ErrTypeInvalidSave).
				WithTag("index", n).
				Wrap(err)
		}
	}
	return i, nil
}

// Encode writes the interior as JSON.
func (i *Interior) Encode(w io.Writer) error {
	b, err := json.MarshalIndent(i.Save(), "", "  ")
	if err != nil {
		return errors.New("encoding interior failed").Wrap(err)
	}

	if _, err = w.Write(b); err != nil {
		return errors.New("writing interior failed").Wrap(err)
	}
	return nil
}

// Decode reads an interior written by Encode.
func Decode(r io.Reader) (*Interior, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.New("reading interior failed").Wrap(err)
	}

	var s SaveInterior
	if err = json.Unmarshal(b, &s); err != nil {
		return nil, errors.New("decoding interior failed").
			WithType(ErrTypeInvalidSave).
			Wrap(err)
	}
	return Load(s)
}

// SaveFile writes the interior to the given file.
func (i *Interior) SaveFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.New("creating save file failed").
			WithTag("filename", filename).
			Wrap(err)
	}
	defer f.Close()

	if err = i.Encode(f); err != nil {
		return errors.New("saving interior failed").
			WithTag("filename", filename).
			Wrap(err)
	}

	logs.WithTag("interior_id", i.ID).
		WithTag("filename", filename).
		Info("interior saved")
	return f.Close()
}

// LoadFile reads an interior from the given file.
func LoadFile(filename string) (*Interior, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.New("opening save file failed").
			WithTag("filename", filename).
			Wrap(err)
	}
	defer f.Close()

	i, err := Decode(f)
	if err != nil {
		return nil, errors.New("loading interior failed").
			WithTag("filename", filename).
			Wrap(err)
	}

	logs.WithTag("interior_id", i.ID).
		WithTag("filename", filename).
		WithTag("parts", len(i.parts)).
		Info("interior loaded")
	return i, nil
}
