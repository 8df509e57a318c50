package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// VoiceService issues signed access tokens for in-match voice channels.
// Each match gets its own channel named after the match ID.
type VoiceService struct {
	secret   string
	issuer   string
	domain   string
	tokenTTL time.Duration
}

const (
	VoiceTokenActionLogin = "login"
	VoiceTokenActionJoin  = "join"
)

func NewVoiceService(secret, issuer, domain string) *VoiceService {
	return &VoiceService{
		secret:   secret,
		issuer:   issuer,
		domain:   domain,
		tokenTTL: time.Hour,
	}
}

// GenerateToken signs an HS256 token authorizing user to perform action.
// Join tokens additionally need the match ID naming the channel.
func (s *VoiceService) GenerateToken(user, action, matchID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("voice service is nil")
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}
	if s.secret == "" || s.issuer == "" || s.domain == "" {
		return "", fmt.Errorf("voice config is incomplete")
	}

	userURI := s.userURI(user)
	targetURI, err := s.targetURI(action, matchID, userURI)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
		"vxa": action,
		"vxi": fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63()),
		"f":   userURI,
		"t":   targetURI,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *VoiceService) userURI(user string) string {
	return "sip:." + s.issuer + "." + user + ".@" + s.domain
}

func (s *VoiceService) channelURI(matchID string) string {
	return "sip:confctl-g-" + matchID + "@" + s.domain
}

func (s *VoiceService) targetURI(action, matchID, userURI string) (string, error) {
	switch action {
	case VoiceTokenActionLogin:
		return userURI, nil
	case VoiceTokenActionJoin:
		if matchID == "" {
			return "", fmt.Errorf("match id is required for join tokens")
		}
		return s.channelURI(matchID), nil
	default:
		return "", fmt.Errorf("unsupported voice action: %s", action)
	}
}
