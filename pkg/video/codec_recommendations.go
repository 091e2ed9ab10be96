package video

import (
	"fmt"
	"strings"

	"frame-bridge/pkg/playback"
)

// CodecType represents the type of codec
type CodecType int

const (
	CodecTypeMPEG1 CodecType = iota
	CodecTypeMPEG2
	CodecTypeMPEG4
	CodecTypeH264
	CodecTypeHEVC
	CodecTypeVP8
	CodecTypeVP9
	CodecTypeAV1
	CodecTypeUnknown
)

// PluginHint tells the user how to get a missing decoder
type PluginHint struct {
	Codec           CodecType
	Detail          string
	Packages        []string
	Elements        []string
	Reason          string
	InstallCommand  string
	ReencodeCommand string
}

// DetectCodecType determines the codec type from a caps string or codec name
func DetectCodecType(codec string) CodecType {
	lower := strings.ToLower(codec)

	switch {
	case strings.Contains(lower, "h264"), strings.Contains(lower, "avc"):
		return CodecTypeH264
	case strings.Contains(lower, "h265"), strings.Contains(lower, "hevc"):
		return CodecTypeHEVC
	case strings.Contains(lower, "mpeg1"), strings.Contains(lower, "mpegversion=(int)1"), strings.Contains(lower, "mpegversion=1"):
		return CodecTypeMPEG1
	case strings.Contains(lower, "mpeg2"), strings.Contains(lower, "mpegversion=(int)2"), strings.Contains(lower, "mpegversion=2"):
		return CodecTypeMPEG2
	case strings.Contains(lower, "mpeg4"), strings.Contains(lower, "mpegversion=(int)4"), strings.Contains(lower, "mpegversion=4"):
		return CodecTypeMPEG4
	case strings.Contains(lower, "vp8"):
		return CodecTypeVP8
	case strings.Contains(lower, "vp9"):
		return CodecTypeVP9
	case strings.Contains(lower, "av1"):
		return CodecTypeAV1
	default:
		return CodecTypeUnknown
	}
}

// String returns human-readable codec type name
func (c CodecType) String() string {
	switch c {
	case CodecTypeMPEG1:
		return "MPEG-1"
	case CodecTypeMPEG2:
		return "MPEG-2"
	case CodecTypeMPEG4:
		return "MPEG-4"
	case CodecTypeH264:
		return "H.264/AVC"
	case CodecTypeHEVC:
		return "H.265/HEVC"
	case CodecTypeVP8:
		return "VP8"
	case CodecTypeVP9:
		return "VP9"
	case CodecTypeAV1:
		return "AV1"
	default:
		return "Unknown"
	}
}

// HintForNotice builds remediation advice for a missing-plugin notice
func HintForNotice(notice playback.ElementNotice) PluginHint {
	hint := HintForCodec(notice.Detail())
	if name := notice.Field("name"); name != "" {
		hint.Reason = fmt.Sprintf("%s (%s)", hint.Reason, name)
	}
	return hint
}

// HintForCodec maps a caps detail such as "video/x-h265" to the GStreamer
// packages and elements that decode it
func HintForCodec(detail string) PluginHint {
	codec := DetectCodecType(detail)
	hint := PluginHint{Codec: codec, Detail: detail}

	switch codec {
	case CodecTypeH264:
		hint.Packages = []string{"gstreamer1.0-libav", "gstreamer1.0-plugins-bad"}
		hint.Elements = []string{"avdec_h264", "openh264dec", "vah264dec"}
		hint.Reason = "No H.264 decoder is registered"

	case CodecTypeHEVC:
		hint.Packages = []string{"gstreamer1.0-libav", "gstreamer1.0-plugins-bad"}
		hint.Elements = []string{"avdec_h265", "vah265dec"}
		hint.Reason = "No H.265/HEVC decoder is registered"

	case CodecTypeMPEG1, CodecTypeMPEG2:
		hint.Packages = []string{"gstreamer1.0-plugins-ugly", "gstreamer1.0-libav"}
		hint.Elements = []string{"mpeg2dec", "avdec_mpeg2video"}
		hint.Reason = fmt.Sprintf("No %s decoder is registered", codec)

	case CodecTypeMPEG4:
		hint.Packages = []string{"gstreamer1.0-libav"}
		hint.Elements = []string{"avdec_mpeg4"}
		hint.Reason = "No MPEG-4 Part 2 decoder is registered"

	case CodecTypeVP8, CodecTypeVP9:
		hint.Packages = []string{"gstreamer1.0-plugins-good"}
		hint.Elements = []string{strings.ToLower(codec.String()) + "dec"}
		hint.Reason = fmt.Sprintf("No %s decoder is registered", codec)

	case CodecTypeAV1:
		hint.Packages = []string{"gstreamer1.0-plugins-bad", "gstreamer1.0-libav"}
		hint.Elements = []string{"dav1ddec", "av1dec", "avdec_av1"}
		hint.Reason = "No AV1 decoder is registered"

	default:
		hint.Packages = []string{"gstreamer1.0-plugins-good", "gstreamer1.0-plugins-bad", "gstreamer1.0-plugins-ugly", "gstreamer1.0-libav"}
		hint.Reason = fmt.Sprintf("No element handles %q", detail)
	}

	hint.InstallCommand = "sudo apt install " + strings.Join(hint.Packages, " ")
	if codec != CodecTypeH264 {
		hint.ReencodeCommand = generateReencodingCommand("h264", "main")
	}
	return hint
}

// String renders the hint as a single log-friendly line
func (h PluginHint) String() string {
	s := fmt.Sprintf("%s: install %s", h.Reason, strings.Join(h.Packages, " or "))
	if h.ReencodeCommand != "" {
		s += "; or re-encode with: " + h.ReencodeCommand
	}
	return s
}

// generateReencodingCommand creates an ffmpeg command for re-encoding
func generateReencodingCommand(targetCodec, profile string) string {
	switch targetCodec {
	case "h264":
		return fmt.Sprintf(
			"ffmpeg -i input -c:v libx264 -profile:v %s -preset slow -crf 23 -c:a copy output.mp4",
			profile)
	default:
		return ""
	}
}
