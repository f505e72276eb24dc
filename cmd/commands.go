package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ficap/dhwebapi/auth"
	"github.com/ficap/dhwebapi/hub"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

type descriptionField struct {
	name    string
	current func(info *hub.RepositoryInfo) string
	update  func(a *app, client *hub.Client, namespace, repo, text string) error
}

var fullDescription = descriptionField{
	name: "full description",
	current: func(info *hub.RepositoryInfo) string {
		return info.FullDescription
	},
	update: func(a *app, client *hub.Client, namespace, repo, text string) error {
		return client.SetRepositoryFullDescription(a.ctx, namespace, repo, text)
	},
}

var shortDescription = descriptionField{
	name: "description",
	current: func(info *hub.RepositoryInfo) string {
		return info.Description
	},
	update: func(a *app, client *hub.Client, namespace, repo, text string) error {
		return client.SetRepositoryShortDescription(a.ctx, namespace, repo, text)
	},
}

func newUpdateFullDescriptionCommand(a *app) *cobra.Command {
	return newUpdateCommand(a, "update-repo-full-description", fullDescription)
}

func newUpdateDescriptionCommand(a *app) *cobra.Command {
	return newUpdateCommand(a, "update-repo-description", shortDescription)
}

func newUpdateCommand(a *app, use string, field descriptionField) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " NAMESPACE REPOSITORY",
		Short: fmt.Sprintf("Replace the %s of a repository", field.name),
		Long: fmt.Sprintf(`Replace the %s of a repository with the content of --file,
or of standard input when no file is given.`, field.name),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			namespace, repo := args[0], args[1]

			text, err := readContent(cmd)
			if err != nil {
				return err
			}

			client, err := a.loggedInClient()
			if err != nil {
				return err
			}

			showDiff, _ := cmd.Flags().GetBool("diff")
			if showDiff {
				info, err := client.GetRepositoryInfo(a.ctx, namespace, repo)
				if err != nil {
					return err
				}
				current := field.current(info)
				if current == text {
					a.logger.Info("nothing to update",
						"namespace", namespace,
						"repository", repo,
						"field", field.name)
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), lineDiff(current, text))
			}

			return field.update(a, client, namespace, repo, text)
		},
	}

	cmd.Flags().StringP("file", "f", "", "use this file as an input for pushing operations, standard input otherwise")
	cmd.Flags().Bool("diff", false, "print the changes against the current text before updating, skip the update when there are none")
	return cmd
}

func newGetTokenCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get-token",
		Short: "Log in and print the token for use with --token or --tokenfile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := auth.ResolveLogin(a.authOptions(), a.prompter)
			if err != nil {
				return err
			}

			client, err := hub.NewClient(a.ctx, a.clientConfig(), creds.Username, creds.Password, "")
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), client.Token())
			return nil
		},
	}
}

func newGetRepoInfoCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-repo-info NAMESPACE REPOSITORY",
		Short: "Print the repository information",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if output != "json" && output != "yaml" {
				return hub.NewValidationError(fmt.Sprintf("unsupported output format %q, use json or yaml", output))
			}

			client, err := a.optionalClient()
			if err != nil {
				return err
			}

			info, err := client.GetRepositoryInfo(a.ctx, args[0], args[1])
			if err != nil {
				return err
			}

			var data []byte
			if output == "yaml" {
				data, err = yaml.Marshal(info.Raw)
			} else {
				data, err = json.MarshalIndent(info.Raw, "", "  ")
				data = append(data, '\n')
			}
			if err != nil {
				return fmt.Errorf("unable to encode repository information: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringP("output", "o", "json", "output format: json or yaml")
	return cmd
}

// lineDiff renders a line based diff, prefixing removed lines with "-", added with "+".
func lineDiff(current, updated string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(current, updated)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, diff := range diffs {
		prefix := "  "
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
