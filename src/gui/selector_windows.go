//go:build windows

package gui

import (
	"context"
	"fmt"
	"image"
	"log"
	"runtime"
	"syscall"
	"time"
	"unsafe"

	"fyne.io/fyne/v2"
	"github.com/lxn/win"

	"snap-mosaic/src/overlay"
	"snap-mosaic/src/screenshot"
)

const (
	keyPollTimerID    = 1
	keyPollIntervalMs = 25
)

var (
	user32                       = syscall.NewLazyDLL("user32.dll")
	procAllowSetForegroundWindow = user32.NewProc("AllowSetForegroundWindow")
	procGetAsyncKeyState         = user32.NewProc("GetAsyncKeyState")

	gdi32         = syscall.NewLazyDLL("gdi32.dll")
	procCreatePen = gdi32.NewProc("CreatePen")
	procRectangle = gdi32.NewProc("Rectangle")

	wndProcCallback = syscall.NewCallback(overlayWndProc)
)

// active is the overlay the window procedure serves. Only one selection runs
// at a time.
var active *nativeOverlay

// nativeOverlay is a topmost popup covering the whole virtual desktop.
type nativeOverlay struct {
	hwnd     win.HWND
	img      *image.RGBA
	drag     overlay.Drag
	cursor   win.HCURSOR
	escDown  bool
	finished bool

	// written on the message loop thread, read after it exits
	rect     overlay.Rect
	selected bool
	viewW    int32
	viewH    int32
}

// show runs the native overlay on its own locked OS thread and reports back
// through fyne.Do.
func (s *Selector) show(ctx context.Context, img *image.RGBA, bounds image.Rectangle, done func(screenshot.Region, bool, error)) {
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		o, err := runNativeOverlay(ctx, img)
		fyne.Do(func() {
			switch {
			case err != nil:
				done(screenshot.Region{}, false, err)
			case !o.selected:
				log.Printf("overlay: cancelled")
				done(screenshot.Region{}, true, nil)
			default:
				region := s.mapper(bounds, float32(o.viewW), float32(o.viewH)).ToRegion(o.rect)
				log.Printf("overlay: selected %v (overlay rect %+v)", region, o.rect)
				done(region, false, nil)
			}
		})
	}()
}

func runNativeOverlay(ctx context.Context, img *image.RGBA) (*nativeOverlay, error) {
	vx := win.GetSystemMetrics(win.SM_XVIRTUALSCREEN)
	vy := win.GetSystemMetrics(win.SM_YVIRTUALSCREEN)
	vw := win.GetSystemMetrics(win.SM_CXVIRTUALSCREEN)
	vh := win.GetSystemMetrics(win.SM_CYVIRTUALSCREEN)
	log.Printf("overlay: virtual screen x=%d y=%d w=%d h=%d", vx, vy, vw, vh)

	o := &nativeOverlay{img: img, viewW: vw, viewH: vh}
	o.cursor = win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_CROSS))

	className := syscall.StringToUTF16Ptr(fmt.Sprintf("SnapMosaicOverlay_%d", time.Now().UnixNano()))
	wc := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		Style:         win.CS_HREDRAW | win.CS_VREDRAW,
		LpfnWndProc:   wndProcCallback,
		HInstance:     win.GetModuleHandle(nil),
		HCursor:       o.cursor,
		LpszClassName: className,
	}
	if win.RegisterClassEx(&wc) == 0 {
		return nil, fmt.Errorf("register overlay window class failed")
	}
	defer win.UnregisterClass(className)

	active = o
	defer func() { active = nil }()

	o.hwnd = win.CreateWindowEx(
		win.WS_EX_TOPMOST|win.WS_EX_TOOLWINDOW,
		className,
		syscall.StringToUTF16Ptr("Select Region"),
		win.WS_POPUP|win.WS_VISIBLE,
		vx, vy, vw, vh,
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if o.hwnd == 0 {
		return nil, fmt.Errorf("create overlay window failed")
	}

	win.ShowWindow(o.hwnd, win.SW_SHOW)
	procAllowSetForegroundWindow.Call(uintptr(syscall.Getpid()))
	win.SetForegroundWindow(o.hwnd)
	win.BringWindowToTop(o.hwnd)
	win.SetFocus(o.hwnd)
	win.UpdateWindow(o.hwnd)
	win.SetTimer(o.hwnd, keyPollTimerID, keyPollIntervalMs, 0)

	stop := make(chan struct{})
	defer close(stop)
	hwnd := o.hwnd
	go func() {
		select {
		case <-ctx.Done():
			win.PostMessage(hwnd, win.WM_CLOSE, 0, 0)
		case <-stop:
		}
	}()

	var msg win.MSG
	for !o.finished {
		ret := win.GetMessage(&msg, 0, 0, 0)
		if ret == 0 || ret == -1 {
			break
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
	if !o.finished {
		win.DestroyWindow(o.hwnd)
	}
	return o, nil
}

func (o *nativeOverlay) finish(r overlay.Rect, selected bool) {
	if o.finished {
		return
	}
	o.finished = true
	o.rect, o.selected = r, selected
	win.KillTimer(o.hwnd, keyPollTimerID)
	win.DestroyWindow(o.hwnd)
}

func overlayWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	o := active
	if o == nil || o.hwnd != hwnd {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}
	pos := func() overlay.Point {
		return overlay.Point{X: float32(win.GET_X_LPARAM(lParam)), Y: float32(win.GET_Y_LPARAM(lParam))}
	}

	switch msg {
	case win.WM_LBUTTONDOWN:
		win.SetCapture(hwnd)
		o.drag.Press(pos())
		win.InvalidateRect(hwnd, nil, false)
		return 0

	case win.WM_MOUSEMOVE:
		if o.drag.Active() {
			o.drag.Move(pos())
			win.InvalidateRect(hwnd, nil, false)
		}
		return 0

	case win.WM_LBUTTONUP:
		win.ReleaseCapture()
		if r, ok := o.drag.Release(pos()); ok {
			o.finish(r, true)
		}
		return 0

	case win.WM_PAINT:
		var ps win.PAINTSTRUCT
		hdc := win.BeginPaint(hwnd, &ps)
		o.paint(hdc)
		win.EndPaint(hwnd, &ps)
		return 0

	case win.WM_ERASEBKGND:
		return 1

	case win.WM_SETCURSOR:
		win.SetCursor(o.cursor)
		return 1

	case win.WM_TIMER:
		if wParam == keyPollTimerID {
			o.pollEscape()
		}
		return 0

	case win.WM_KEYDOWN:
		if wParam == win.VK_ESCAPE {
			o.escDown = true
			o.finish(overlay.Rect{}, false)
		}
		return 0

	case win.WM_CLOSE:
		o.finish(overlay.Rect{}, false)
		return 0

	case win.WM_NCHITTEST:
		return uintptr(win.HTCLIENT)
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

// pollEscape catches Escape when the overlay did not get keyboard focus.
func (o *nativeOverlay) pollEscape() {
	state, _, _ := procGetAsyncKeyState.Call(uintptr(win.VK_ESCAPE))
	down := uint16(state)&0x8000 != 0
	pressed := uint16(state)&0x0001 != 0
	if !o.escDown && (down || pressed) {
		o.finish(overlay.Rect{}, false)
	}
	o.escDown = down
}

func (o *nativeOverlay) paint(hdc win.HDC) {
	o.paintSnapshot(hdc)
	r, ok := o.drag.Current()
	if !ok {
		return
	}
	pen, _, _ := procCreatePen.Call(0, 2, 0x00d47800) // COLORREF is 0x00BBGGRR
	oldPen := win.SelectObject(hdc, win.HGDIOBJ(pen))
	oldBrush := win.SelectObject(hdc, win.GetStockObject(win.NULL_BRUSH))
	procRectangle.Call(uintptr(hdc),
		uintptr(int32(r.X)), uintptr(int32(r.Y)),
		uintptr(int32(r.X+r.Width)), uintptr(int32(r.Y+r.Height)))
	win.SelectObject(hdc, oldPen)
	win.SelectObject(hdc, oldBrush)
	win.DeleteObject(win.HGDIOBJ(pen))
}

// paintSnapshot stretches the desktop snapshot over the client area.
func (o *nativeOverlay) paintSnapshot(hdc win.HDC) {
	b := o.img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	memDC := win.CreateCompatibleDC(hdc)
	defer win.DeleteDC(memDC)

	bi := win.BITMAPINFOHEADER{
		BiSize:        uint32(unsafe.Sizeof(win.BITMAPINFOHEADER{})),
		BiWidth:       int32(w),
		BiHeight:      -int32(h), // top-down
		BiPlanes:      1,
		BiBitCount:    32,
		BiCompression: win.BI_RGB,
	}
	var bits unsafe.Pointer
	bmp := win.CreateDIBSection(memDC, &bi, win.DIB_RGB_COLORS, &bits, 0, 0)
	if bmp == 0 {
		return
	}
	defer win.DeleteObject(win.HGDIOBJ(bmp))
	old := win.SelectObject(memDC, win.HGDIOBJ(bmp))
	defer win.SelectObject(memDC, old)

	dst := unsafe.Slice((*byte)(bits), w*h*4)
	toBGRA(dst, o.img)
	win.StretchBlt(hdc, 0, 0, o.viewW, o.viewH, memDC, 0, 0, int32(w), int32(h), win.SRCCOPY)
}

func toBGRA(dst []byte, img *image.RGBA) {
	b := img.Bounds()
	w := b.Dx()
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		out := dst[y*w*4 : (y+1)*w*4]
		for x := 0; x < w*4; x += 4 {
			out[x], out[x+1], out[x+2], out[x+3] = row[x+2], row[x+1], row[x], row[x+3]
		}
	}
}
