package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mitchellh/mapstructure"
)

func repositoryPath(namespace, repo string) (string, error) {
	ref := repositoryRef{Namespace: namespace, Name: repo}
	if err := validate(ref); err != nil {
		return "", err
	}
	return fmt.Sprintf("repositories/%s/%s", url.PathEscape(namespace), url.PathEscape(repo)), nil
}

func (c *Client) GetRepositoryInfo(ctx context.Context, namespace, repo string) (*RepositoryInfo, error) {
	path, err := repositoryPath(namespace, repo)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	body, err := c.handleResponse(resp)
	if err != nil {
		return nil, err
	}

	info := &RepositoryInfo{}
	if err := json.Unmarshal(body, &info.Raw); err != nil {
		return nil, fmt.Errorf("unable to decode repository %s/%s: %w", namespace, repo, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &info.Repository,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(info.Raw); err != nil {
		return nil, fmt.Errorf("unexpected repository %s/%s document: %w", namespace, repo, err)
	}
	return info, nil
}

func (c *Client) SetRepositoryFullDescription(ctx context.Context, namespace, repo, text string) error {
	return c.patchRepository(ctx, namespace, repo, fullDescriptionPatch{FullDescription: text})
}

func (c *Client) SetRepositoryShortDescription(ctx context.Context, namespace, repo, text string) error {
	return c.patchRepository(ctx, namespace, repo, descriptionPatch{Description: text})
}

func (c *Client) patchRepository(ctx context.Context, namespace, repo string, patch interface{}) error {
	path, err := repositoryPath(namespace, repo)
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, http.MethodPatch, path, patch)
	if err != nil {
		return err
	}

	if _, err := c.handleResponse(resp); err != nil {
		return err
	}

	c.logger.Info("repository updated",
		"namespace", namespace,
		"repository", repo)
	return nil
}
