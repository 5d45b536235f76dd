package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/Morwran/yagpt"
)

// YandexClient talks to YandexGPT Lite with an IAM token minted once from
// the OAuth token.
type YandexClient struct {
	ya       yagpt.YaGPTFace
	iamToken string
}

func NewYandex(oauthToken, folderID string) (*YandexClient, error) {
	if oauthToken == "" || folderID == "" {
		return nil, errors.New("YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID are required for provider yandex")
	}

	iam, err := yagpt.NewYaIam(oauthToken)
	if err != nil {
		return nil, fmt.Errorf("yandex iam: %w", err)
	}
	token, err := iam.Create()
	if err != nil {
		return nil, fmt.Errorf("yandex iam token: %w", err)
	}
	ya, err := yagpt.NewYagpt(folderID)
	if err != nil {
		return nil, fmt.Errorf("yagpt folder %s: %w", folderID, err)
	}
	return &YandexClient{ya: ya, iamToken: token.IamToken}, nil
}

func (c *YandexClient) Generate(ctx context.Context, messages []Message) (Response, error) {
	resp, err := c.ya.CompletionWithCtx(ctx, c.iamToken, toYandex(messages))
	if err != nil {
		return Response{}, fmt.Errorf("yagpt completion failed: %w", err)
	}
	if resp == nil || len(resp.Alternatives) == 0 {
		return Response{}, errors.New("yagpt returned empty response")
	}
	return Response{
		Content: resp.Alternatives[0].Message.Content,
		Model:   yagpt.YaModelLite,
		Usage: Usage{
			PromptTokens:     int(resp.Usage.InputTextTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

func toYandex(messages []Message) []yagpt.Message {
	out := make([]yagpt.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, yagpt.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
