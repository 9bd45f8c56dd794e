package termview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"holocard-renderer/internal/interact"
	"holocard-renderer/internal/viewer"
)

// panPerPixel converts a right-button (Button2) drag into pan units.
const panPerPixel = 0.01

// Input maps terminal events onto a viewer. It is not safe for concurrent
// use; call Handle from the frame loop (for example through viewer.Post).
type Input struct {
	// Save is called on 's'.
	Save func()
	// Quit is called on 'q', Esc or Ctrl-C.
	Quit func()

	prevButtons tcell.ButtonMask
	panOrigin   interact.Vec2
	panStart    [2]int
	presetIdx   int
	sceneIdx    int
}

// Handle applies one event.
func (in *Input) Handle(ev tcell.Event, v *viewer.Viewer) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		in.key(ev, v)
	case *tcell.EventMouse:
		in.mouse(ev, v)
	}
}

func (in *Input) key(ev *tcell.EventKey, v *viewer.Viewer) {
	ctrl := v.Controller()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		in.quit()
		return
	case tcell.KeyLeft:
		ctrl.Key(interact.KeyLeft)
		return
	case tcell.KeyRight:
		ctrl.Key(interact.KeyRight)
		return
	case tcell.KeyUp:
		ctrl.Key(interact.KeyUp)
		return
	case tcell.KeyDown:
		ctrl.Key(interact.KeyDown)
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch r := ev.Rune(); r {
	case 'q':
		in.quit()
	case '+', '=':
		ctrl.Key(interact.KeyZoomIn)
	case '-', '_':
		ctrl.Key(interact.KeyZoomOut)
	case 'f', ' ':
		ctrl.Key(interact.KeyFlip)
	case 'r':
		ctrl.Key(interact.KeyReset)
	case 'a':
		v.Clock().Toggle()
	case 'p':
		in.cyclePreset(v, 1)
	case 'P':
		in.cyclePreset(v, -1)
	case 'l':
		in.cycleScene(v)
	case 'c':
		v.Store().ClearAll()
		v.ClearOverrides()
	case 's':
		if in.Save != nil {
			in.Save()
		}
	default:
		if r >= '1' && r <= '9' {
			toggleLayer(v, int(r-'1'))
		}
	}
}

func (in *Input) quit() {
	if in.Quit != nil {
		in.Quit()
	}
}

func (in *Input) mouse(ev *tcell.EventMouse, v *viewer.Viewer) {
	cx, cy := ev.Position()
	// Each cell is two pixels tall.
	x, y := float64(cx), float64(cy*2)
	buttons := ev.Buttons()
	prev := in.prevButtons
	in.prevButtons = buttons & (tcell.Button1 | tcell.Button2)
	ctrl := v.Controller()

	switch {
	case buttons&tcell.Button1 != 0 && prev&tcell.Button1 == 0:
		ctrl.PointerDown(x, y)
	case buttons&tcell.Button1 != 0:
		ctrl.PointerMove(x, y)
	case prev&tcell.Button1 != 0:
		ctrl.PointerUp(x, y)
	}

	switch {
	case buttons&tcell.Button2 != 0 && prev&tcell.Button2 == 0:
		in.panOrigin = ctrl.State().Pan
		in.panStart = [2]int{cx, cy}
	case buttons&tcell.Button2 != 0:
		dx := float64(cx-in.panStart[0]) * panPerPixel
		dy := float64(cy-in.panStart[1]) * 2 * panPerPixel
		ctrl.SetPan(in.panOrigin.X+dx, in.panOrigin.Y-dy)
	}

	if buttons&tcell.WheelUp != 0 {
		ctrl.Wheel(1)
	}
	if buttons&tcell.WheelDown != 0 {
		ctrl.Wheel(-1)
	}
}

func (in *Input) cyclePreset(v *viewer.Viewer, step int) {
	combos := v.Engine().Catalog().Combos()
	if len(combos) == 0 {
		return
	}
	in.presetIdx = (in.presetIdx + step + len(combos)) % len(combos)
	v.ApplyPreset(combos[in.presetIdx].ID)
}

func (in *Input) cycleScene(v *viewer.Viewer) {
	scenes := v.Engine().Catalog().Scenes()
	if len(scenes) == 0 {
		return
	}
	in.sceneIdx = (in.sceneIdx + 1) % len(scenes)
	v.SetScene(scenes[in.sceneIdx].ID)
}

func toggleLayer(v *viewer.Viewer, i int) {
	layers := v.Store().List()
	if i < 0 || i >= len(layers) {
		return
	}
	v.Store().SetVisibility(layers[i].ID, !layers[i].Enabled)
}

// Status renders the status line for v.
func Status(v *viewer.Viewer) string {
	st := v.Controller().State()
	m := v.Material()
	layers := v.Store().List()
	on := 0
	for _, l := range layers {
		if l.Enabled {
			on++
		}
	}
	play := "paused"
	if v.Clock().Running() {
		play = "playing"
	}
	return fmt.Sprintf(" %s | %s | layers %d/%d | zoom %.1f | metal %.2f rough %.2f | %s | p:preset l:light 1-9:layer a:anim s:save q:quit",
		v.Classification(), v.Scene().Name, on, len(layers), st.Zoom, m.Metalness, m.Roughness, play)
}
