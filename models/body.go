package models

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Body is a rigid body: an independent position and orientation defining a
// local coordinate frame. Colliders owned by a body are expressed in that frame.
type Body struct {
	ID string

	mutex sync.RWMutex
	pose  Pose
}

type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// IdentityPose is the pose of a body sitting at the world origin with no
// rotation.
func IdentityPose() Pose {
	return Pose{Orientation: mgl64.QuatIdent()}
}

func NewBody(p Pose) *Body {
	instrumentCountBody()
	return &Body{
		ID:   uuid.New().String(),
		pose: p.normalized(),
	}
}

func (b *Body) SetPose(p Pose) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.pose = p.normalized()
	instrumentPoseUpdate()
}

func (b *Body) Pose() Pose {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return b.pose
}

func (b *Body) Position() mgl64.Vec3 {
	return b.Pose().Position
}

func (b *Body) Orientation() mgl64.Quat {
	return b.Pose().Orientation
}

// ToLocal converts a world point into the body frame.
func (b *Body) ToLocal(v mgl64.Vec3) mgl64.Vec3 {
	p := b.Pose()
	return p.Orientation.Inverse().Rotate(v.Sub(p.Position))
}

// ToGlobal converts a body-frame point into world coordinates.
func (b *Body) ToGlobal(v mgl64.Vec3) mgl64.Vec3 {
	p := b.Pose()
	return p.Orientation.Rotate(v).Add(p.Position)
}

func (p Pose) normalized() Pose {
	if p.Orientation == (mgl64.Quat{}) {
		p.Orientation = mgl64.QuatIdent()
	}
	p.Orientation = p.Orientation.Normalize()
	return p
}
