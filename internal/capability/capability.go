package capability

// HardwareCapability is a closed enumeration of sensitive hardware and
// software capability classes a task may require.
type HardwareCapability string

const (
	DisplaySmall HardwareCapability = "display_small"
	DisplayMain  HardwareCapability = "display_main"
	LEDStrip     HardwareCapability = "led_strip"
	Speaker      HardwareCapability = "speaker"
	Camera       HardwareCapability = "camera"
	Microphone   HardwareCapability = "microphone"
	GPUCuda      HardwareCapability = "gpu_cuda"
	GPURocm      HardwareCapability = "gpu_rocm"
	GPUMetal     HardwareCapability = "gpu_metal"
)

// sensitiveCapabilities capture audio/video: the classes that require a
// present, explicit local trigger and are never available to network tasks.
var sensitiveCapabilities = map[HardwareCapability]bool{
	Microphone: true,
	Camera:     true,
}

// IsSensitive reports whether the capability is in the sensitive set.
func IsSensitive(cap HardwareCapability) bool {
	return sensitiveCapabilities[cap]
}

// DefaultTaskCapabilities maps task types to the capabilities they require.
// A task type mapped to several capabilities is satisfied by any one of
// them (alternative backends, e.g. GPU flavors).
func DefaultTaskCapabilities() map[string][]HardwareCapability {
	return map[string][]HardwareCapability{
		// Display tasks
		"display_text":   {DisplaySmall},
		"display_story":  {DisplayMain},
		"display_status": {DisplayMain},
		// LED tasks
		"led_mood":    {LEDStrip},
		"led_pattern": {LEDStrip},
		// Audio output tasks
		"speak":      {Speaker},
		"play_audio": {Speaker},
		// Camera tasks (sensitive)
		"photo": {Camera},
		"video": {Camera},
		// Microphone tasks (sensitive)
		"transcription": {Microphone},
		"record_audio":  {Microphone},
		"listen":        {Microphone},
		// GPU tasks (alternative backends)
		"generate_image": {GPUCuda, GPURocm, GPUMetal},
		"process_video":  {GPUCuda, GPURocm},
	}
}
