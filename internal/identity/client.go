// Package identity はアイデンティティプロバイダ管理APIのクライアントを提供する。
// 認証アイデンティティの作成と削除（プロビジョニング補償用）のみを扱う。
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Service はアイデンティティプロバイダへの操作のインターフェース。
// プロビジョニングオーケストレータが必要とする作成・削除のみを公開する。
type Service interface {
	// CreateIdentity は認証アイデンティティを作成し、発行されたIDを返す。
	CreateIdentity(ctx context.Context, params CreateParams) (string, error)

	// DeleteIdentity は指定IDのアイデンティティを削除する。
	// レコード保存失敗時の補償として呼ばれる。
	DeleteIdentity(ctx context.Context, id string) error
}

// CreateParams はアイデンティティ作成のパラメータ。
type CreateParams struct {
	Email     string
	Password  string
	Confirmed bool              // メール確認済みとして作成するか
	Metadata  map[string]string // role等の属性タグ
}

// Client はアイデンティティプロバイダ管理APIのHTTPクライアント。
// 管理APIはサービスキーによるBearer認証を要求する。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string // テスト用にエンドポイントを差し替え可能
	apiKey     string
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(httpClient *http.Client, logger *slog.Logger, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// createIdentityRequest は管理APIのアイデンティティ作成リクエストボディ。
type createIdentityRequest struct {
	Email        string            `json:"email"`
	Password     string            `json:"password"`
	EmailConfirm bool              `json:"email_confirm"`
	UserMetadata map[string]string `json:"user_metadata,omitempty"`
}

// createIdentityResponse は管理APIのアイデンティティ作成レスポンスボディ。
type createIdentityResponse struct {
	ID string `json:"id"`
}

// CreateIdentity は認証アイデンティティを作成し、発行されたIDを返す。
func (c *Client) CreateIdentity(ctx context.Context, params CreateParams) (string, error) {
	body, err := json.Marshal(createIdentityRequest{
		Email:        params.Email,
		Password:     params.Password,
		EmailConfirm: params.Confirmed,
		UserMetadata: params.Metadata,
	})
	if err != nil {
		return "", fmt.Errorf("リクエストボディの構築に失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin/users", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("アイデンティティ作成APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
			slog.String("email", params.Email),
		)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail := readErrorBody(resp.Body)
		c.logger.Error("アイデンティティ作成APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("email", params.Email),
		)
		return "", fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode, detail)
	}

	var result createIdentityResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("identity provider returned an empty id")
	}

	return result.ID, nil
}

// DeleteIdentity は指定IDのアイデンティティを削除する。
func (c *Client) DeleteIdentity(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/admin/users/"+id, nil)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("アイデンティティ削除APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
			slog.String("identity_id", id),
		)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		detail := readErrorBody(resp.Body)
		c.logger.Error("アイデンティティ削除APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("identity_id", id),
		)
		return fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode, detail)
	}

	return nil
}

// setHeaders は管理API共通のヘッダーを設定する。
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "EnglishArcade/1.0 Provisioner")
}

// readErrorBody はエラーレスポンスのボディを診断用に読み取る。
// 長大なボディはログを汚さないよう先頭のみ保持する。
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil || len(data) == 0 {
		return "(no body)"
	}
	return string(data)
}

// compile-time interface check
var _ Service = (*Client)(nil)
