package scene

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/ikan-go/common"
	"github.com/Carmen-Shannon/ikan-go/engine/camera"
	"github.com/Carmen-Shannon/ikan-go/engine/core"
	"github.com/Carmen-Shannon/ikan-go/engine/game_object"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/batch"
	"github.com/Carmen-Shannon/ikan-go/engine/renderer/framebuffer"
	"github.com/go-gl/mathgl/mgl32"
)

// Scene manages a registry of GameObjects and the camera they are viewed through. Rendering
// converts each enabled object into batch draw calls. Scenes can be hot-swapped via the Active flag
// to switch between different views or levels.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Count returns the number of GameObjects in the scene's registry.
	//
	// Returns:
	//   - int: count of registered GameObjects
	Count() int

	// Add registers a GameObject with the scene. Objects without an ID are assigned the next free one.
	// The ID doubles as the entity id written to the picking attachment, so it must fit in an int32.
	// Adding a different object under an ID that is already registered is fatal.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the object's ID
	Add(obj game_object.GameObject) uint64

	// Get returns the GameObject with the given ID, or nil.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - game_object.GameObject: the object, or nil
	Get(id uint64) game_object.GameObject

	// Remove removes the GameObject with the given ID. Unknown IDs are ignored.
	//
	// Parameters:
	//   - id: the object ID
	Remove(id uint64)

	// Clear removes every GameObject.
	Clear()

	// CullingDisabled returns whether view culling is disabled.
	//
	// Returns:
	//   - bool: true if every enabled object is submitted regardless of visibility
	CullingDisabled() bool

	// SetCullingDisabled sets whether view culling is disabled.
	//
	// Parameters:
	//   - disabled: true to submit every enabled object
	SetCullingDisabled(disabled bool)

	// Update advances every object by deltaTime and refreshes the camera matrices.
	//
	// Parameters:
	//   - deltaTime: the elapsed time in seconds
	Update(deltaTime float32)

	// Render opens a batch with viewProjection, submits each enabled and visible object in ascending
	// Z then ID order, and closes the batch. Sprites become quads and circles become circles. The
	// object's ID is the entity id of every vertex it emits.
	//
	// Parameters:
	//   - b: the initialized batch renderer
	//   - viewProjection: the camera matrix for this batch
	//
	// Returns:
	//   - int: the number of objects submitted
	Render(b batch.Batch2DRenderer, viewProjection mgl32.Mat4) int

	// Resize updates the camera aspect ratio for a new viewport size.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	Resize(width, height int)

	// Pick returns the object whose entity id is stored at a pixel of the framebuffer's picking
	// attachment. The pixel is given in window coordinates from the top-left corner.
	//
	// Parameters:
	//   - r: the renderer used to read the pixel
	//   - fb: the framebuffer holding the picking attachment
	//   - x, y: the pixel position
	//
	// Returns:
	//   - game_object.GameObject: the object under the pixel, or nil for background
	Pick(r renderer.Renderer, fb framebuffer.Framebuffer, x, y int32) game_object.GameObject
}

type scene struct {
	mu *sync.RWMutex

	name            string
	active          bool
	cullingDisabled bool

	cam camera.Camera

	registry map[uint64]game_object.GameObject
	nextID   uint64

	// drawPool is reused each frame to avoid per-frame allocations.
	drawPool []game_object.GameObject
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene viewed through cam. A nil camera is fatal.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		core.Fatal("scene: NewScene requires a non-nil Camera", "scene", name)
	}

	s := &scene{
		mu:       &sync.RWMutex{},
		name:     name,
		active:   false,
		cam:      cam,
		registry: make(map[uint64]game_object.GameObject),
		nextID:   1,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(obj)
}

// add registers obj. Caller must hold s.mu write lock.
func (s *scene) add(obj game_object.GameObject) uint64 {
	if obj.ID() == 0 {
		id := atomic.AddUint64(&s.nextID, 1) - 1
		for s.registry[id] != nil {
			id = atomic.AddUint64(&s.nextID, 1) - 1
		}
		obj.SetID(id)
	} else if existing := s.registry[obj.ID()]; existing != nil && existing != obj {
		core.Fatal("game object id is already taken", "id", obj.ID())
	}
	core.Assert(obj.ID() <= uint64(1<<31-1), "game object id does not fit an entity id", "id", obj.ID())
	s.registry[obj.ID()] = obj
	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.registry, id)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = make(map[uint64]game_object.GameObject)
}

func (s *scene) CullingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) Update(deltaTime float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, obj := range s.registry {
		if obj.Enabled() {
			obj.Update(deltaTime)
		}
	}
	s.cam.Update()
}

func (s *scene) Render(b batch.Batch2DRenderer, viewProjection mgl32.Mat4) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drawPool = s.drawPool[:0]
	for _, obj := range s.registry {
		if obj.Enabled() && (obj.Sprite() != nil || obj.Circle() != nil) {
			s.drawPool = append(s.drawPool, obj)
		}
	}
	slices.SortFunc(s.drawPool, func(a, b game_object.GameObject) int {
		if c := cmp.Compare(a.Position().Z(), b.Position().Z()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})

	frustum := common.ExtractFrustumFromMatrix(viewProjection)

	submitted := 0
	b.BeginBatch(viewProjection)
	for _, obj := range s.drawPool {
		if !s.cullingDisabled && !frustum.IntersectsSphere(obj.Position(), boundingRadius(obj)) {
			continue
		}
		draw(b, obj)
		submitted++
	}
	b.EndBatch()
	return submitted
}

// boundingRadius returns the radius of the circle enclosing the object's unit quad after scaling.
func boundingRadius(obj game_object.GameObject) float32 {
	return obj.Scale().Len() / 2
}

// draw submits the object's drawable component to the batch.
func draw(b batch.Batch2DRenderer, obj game_object.GameObject) {
	transform := obj.Transform()
	id := int32(obj.ID())

	if c := obj.Circle(); c != nil {
		b.DrawCircle(transform, c.Color, c.Thickness, c.Fade, id)
		return
	}

	sprite := obj.Sprite()
	switch {
	case sprite.SubTexture != nil:
		b.DrawSubTexturedQuad(transform, sprite.SubTexture, sprite.Color, sprite.TilingFactor, id)
	case sprite.Texture != nil:
		b.DrawTexturedQuad(transform, sprite.Texture, sprite.Color, sprite.TilingFactor, id)
	default:
		b.DrawQuad(transform, sprite.Color, id)
	}
}

func (s *scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.cam.SetAspect(float32(width) / float32(height))
}

func (s *scene) Pick(r renderer.Renderer, fb framebuffer.Framebuffer, x, y int32) game_object.GameObject {
	index := fb.PixelPickAttachmentIndex()
	if index < 0 {
		return nil
	}
	// Window coordinates grow downwards, framebuffer rows grow upwards.
	height := int32(fb.Specification().Height)
	id := r.EntityIDFromPixels(fb, index, x, height-1-y)
	if id <= 0 {
		return nil
	}
	return s.Get(uint64(id))
}
