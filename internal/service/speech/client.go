package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mizunoha/kokoro-relay/internal/config"
)

const (
	ttsEndpoint   = "wss://openspeech.bytedance.com/api/v3/tts/unidirectional/stream"
	ttsResourceID = "volc.service_type.10029"
)

// Service synthesizes reply text to MP3 audio through the volcengine
// unidirectional-stream TTS API.
type Service struct {
	cfg    config.SpeechConfig
	dialer *websocket.Dialer
}

// NewService creates the speech gateway.
func NewService(cfg config.SpeechConfig) *Service {
	return &Service{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 30 * time.Second,
		},
	}
}

type ttsRequest struct {
	User struct {
		UID string `json:"uid"`
	} `json:"user"`
	ReqParams struct {
		Speaker     string         `json:"speaker"`
		Text        string         `json:"text"`
		AudioParams ttsAudioParams `json:"audio_params"`
		Language    string         `json:"language,omitempty"`
	} `json:"req_params"`
}

type ttsAudioParams struct {
	Format      string  `json:"format"`
	SampleRate  int     `json:"sample_rate"`
	SpeedRatio  float32 `json:"speed_ratio,omitempty"`
	VolumeRatio float32 `json:"volume_ratio,omitempty"`
}

type ttsServerMessage struct {
	ReqID    string `json:"reqid"`
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Sequence int    `json:"sequence"`
	Data     string `json:"data"`
}

// Synthesize converts text to MP3 bytes. Failures propagate to the caller;
// there is no partial or streaming result.
func (s *Service) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("tts text is empty")
	}

	connectID := uuid.NewString()

	header := http.Header{}
	header.Set("X-Api-App-Key", s.cfg.AppID)
	header.Set("X-Api-Access-Key", s.cfg.AccessToken)
	header.Set("X-Api-Resource-Id", ttsResourceID)
	header.Set("X-Api-Connect-Id", connectID)

	conn, resp, err := s.dialer.DialContext(ctx, ttsEndpoint, header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to tts endpoint: %w", err)
	}
	defer conn.Close()

	if resp != nil {
		if logid := resp.Header.Get("X-Tt-Logid"); logid != "" {
			log.Printf("[tts] connected, logid=%s", logid)
		}
	}

	payload, err := json.Marshal(s.buildRequest(text, connectID))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tts request: %w", err)
	}

	frameBytes, err := NewFullClientRequest(payload, NoCompression).Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode tts frame: %w", err)
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, frameBytes); err != nil {
		return nil, fmt.Errorf("failed to send tts request: %w", err)
	}

	return s.collectAudio(ctx, conn)
}

func (s *Service) buildRequest(text, uid string) *ttsRequest {
	req := &ttsRequest{}
	req.User.UID = uid
	req.ReqParams.Speaker = s.cfg.Voice
	req.ReqParams.Text = text
	req.ReqParams.Language = s.cfg.Language
	req.ReqParams.AudioParams = ttsAudioParams{
		Format:      "mp3",
		SampleRate:  24000,
		SpeedRatio:  s.cfg.Speed,
		VolumeRatio: s.cfg.Volume,
	}
	return req
}

func (s *Service) collectAudio(ctx context.Context, conn *websocket.Conn) ([]byte, error) {
	var audio bytes.Buffer

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if deadline, ok := ctx.Deadline(); ok {
			_ = conn.SetReadDeadline(deadline)
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("failed to read tts response: %w", err)
		}

		frame, err := DecodeFrame(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode tts frame: %w", err)
		}

		switch frame.Header.MessageType {
		case ErrorMessage:
			payload, derr := DecompressPayload(frame.Payload, frame.Header.CompressionMethod)
			if derr != nil {
				return nil, fmt.Errorf("tts error frame decode failed: %w", derr)
			}
			return nil, fmt.Errorf("tts error %d: %s", frame.ErrorCode, string(payload))

		case AudioOnlyServerResponse:
			chunk, derr := DecompressPayload(frame.Payload, frame.Header.CompressionMethod)
			if derr != nil {
				return nil, fmt.Errorf("failed to decompress audio chunk: %w", derr)
			}
			audio.Write(chunk)
			if frame.IsLastPacket() {
				return finishAudio(&audio)
			}

		case FullServerResponse:
			done, ferr := s.consumeServerResponse(frame, &audio)
			if ferr != nil {
				return nil, ferr
			}
			if done {
				return finishAudio(&audio)
			}
		}
	}
}

func (s *Service) consumeServerResponse(frame *Frame, audio *bytes.Buffer) (bool, error) {
	payload, err := DecompressPayload(frame.Payload, frame.Header.CompressionMethod)
	if err != nil {
		return false, fmt.Errorf("failed to decompress tts payload: %w", err)
	}

	var msg ttsServerMessage
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Printf("[tts] unparseable server payload: %v", err)
		} else {
			// 3000 is the API's "OK" code on finish frames.
			if msg.Code != 0 && msg.Code != 3000 {
				return false, fmt.Errorf("tts api error %d: %s", msg.Code, msg.Message)
			}
			if msg.Data != "" {
				chunk, derr := base64.StdEncoding.DecodeString(msg.Data)
				if derr != nil {
					return false, fmt.Errorf("failed to decode base64 audio chunk: %w", derr)
				}
				audio.Write(chunk)
			}
		}
	}

	finishedByEvent := frame.Header.MessageFlags&WithEvent == WithEvent && frame.EventType == EventSessionFinished
	finishedBySequence := frame.IsLastPacket() || msg.Sequence < 0

	return finishedByEvent || finishedBySequence, nil
}

func finishAudio(audio *bytes.Buffer) ([]byte, error) {
	if audio.Len() == 0 {
		return nil, fmt.Errorf("tts produced no audio")
	}
	out := make([]byte, audio.Len())
	copy(out, audio.Bytes())
	return out, nil
}
