package core

// CaptureMode names the active scan/capture session
type CaptureMode string

const (
	CaptureIdle     CaptureMode = "idle"
	CaptureScanning CaptureMode = "scanning"
	CaptureImage    CaptureMode = "imageCapturing"
)

const (
	PictureSideFront = "front"
	PictureSideBack  = "back"
)

// CaptureState describes the scanner/camera overlay
type CaptureState struct {
	Mode  CaptureMode `json:"mode"`
	Index int         `json:"index"`
}

var errSessionActive = newIntakeError(KindValidationError, "Error", "Another scan or capture is already in progress.", nil)

// captureSession allows one scanner or camera session at a time
type captureSession struct {
	mode  CaptureMode
	index int
}

func (c *captureSession) start(mode CaptureMode, index int) error {
	if c.isActive() {
		return errSessionActive
	}
	c.mode = mode
	c.index = index
	return nil
}

func (c *captureSession) isActive() bool {
	return c.mode == CaptureScanning || c.mode == CaptureImage
}

func (c *captureSession) activeIndex() (int, bool) {
	if !c.isActive() {
		return 0, false
	}
	return c.index, true
}

func (c *captureSession) close() {
	c.mode = CaptureIdle
	c.index = 0
}

func (c *captureSession) state() CaptureState {
	if !c.isActive() {
		return CaptureState{Mode: CaptureIdle, Index: -1}
	}
	return CaptureState{Mode: c.mode, Index: c.index}
}
