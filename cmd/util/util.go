package util

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mbeckers/serdex/lib/contexts"
	"github.com/mbeckers/serdex/lib/fallback"
	"github.com/mbeckers/serdex/lib/serde"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("serdex")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetFallbackCodec creates a fallback codec based on configuration
func GetFallbackCodec() (fallback.IByteCodec, error) {
	switch viper.GetString("fallback") {
	case "msgpack":
		return fallback.NewMsgpackCodec(), nil
	case "gob":
		return fallback.NewGobCodec(), nil
	case "json":
		return fallback.NewJSONCodec(), nil
	default:
		return nil, fmt.Errorf("invalid fallback codec %s", viper.GetString("fallback"))
	}
}

// GetContext creates a serialization context based on configuration
func GetContext() (serde.ISerializationContext, error) {
	codec, err := GetFallbackCodec()
	if err != nil {
		return nil, err
	}

	var opts []serde.Option
	if viper.GetBool("metrics") {
		opts = append(opts, serde.WithMetrics())
	}

	ctx := serde.New(codec, opts...)
	if err := contexts.RegisterDefaultHandlers(ctx); err != nil {
		return nil, err
	}

	switch viper.GetString("context") {
	case "default":
		return ctx, nil
	case "compact":
		return contexts.NewCompactContext(ctx), nil
	default:
		return nil, fmt.Errorf("invalid context %s", viper.GetString("context"))
	}
}
