package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptalchemy/alchemy-go/internal/app"
	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// NewEnhanceCommand creates the enhance command, also reachable as the bare
// root invocation.
func NewEnhanceCommand(container *app.Container, clip ports.Clipboard) *cobra.Command {
	var (
		provider     string
		model        string
		role         string
		reasoning    string
		verbosity    string
		tools        []string
		selfReflect  bool
		metaFix      bool
		inputs       string
		deliverables string
		attachments  []string
		temperature  float64
		maxTokens    int
		project      string
		wait         bool
		copyOut      bool
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "enhance [prompt]",
		Short: "Enhance a rough prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			req := domain.EnhanceRequest{
				Context:      ctx,
				Prompt:       strings.Join(args, " "),
				Provider:     provider,
				Model:        model,
				Role:         role,
				Reasoning:    reasoning,
				Verbosity:    verbosity,
				Tools:        tools,
				Inputs:       inputs,
				Deliverables: deliverables,
				Attachments:  attachments,
				Temperature:  temperature,
				MaxTokens:    maxTokens,
				Project:      project,
				Wait:         wait,
			}
			if cmd.Flags().Changed("self-reflect") {
				req.SelfReflect = &selfReflect
			}
			if cmd.Flags().Changed("meta-fix") {
				req.MetaFix = &metaFix
			}

			result, err := container.Enhancer.Enhance(req)
			if err != nil {
				return err
			}
			renderResult(cmd.OutOrStdout(), result)
			if copyOut {
				if err := clip.Copy(result.EnhancedPrompt); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "clipboard copy failed: %v\n", err)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "\nCopied to clipboard.")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "P", "", "Provider to use (default from config)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to use (default from config)")
	cmd.Flags().StringVar(&role, "role", "", "Role the enhanced prompt addresses")
	cmd.Flags().StringVar(&reasoning, "reasoning", "", "Reasoning mode (Standard, Deep Think, ...)")
	cmd.Flags().StringVar(&verbosity, "verbosity", "", "Verbosity level (minimal..comprehensive)")
	cmd.Flags().StringSliceVar(&tools, "tools", nil, "Tools the enhanced prompt may reference")
	cmd.Flags().BoolVar(&selfReflect, "self-reflect", true, "Enable self-reflection instructions")
	cmd.Flags().BoolVar(&metaFix, "meta-fix", true, "Enable meta-fix instructions")
	cmd.Flags().StringVar(&inputs, "inputs", "", "Additional input specifications")
	cmd.Flags().StringVar(&deliverables, "deliverables", "", "Deliverables specification")
	cmd.Flags().StringSliceVar(&attachments, "attach", nil, "Attach file contents to the prompt")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "Sampling temperature (default from config)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Token budget for the enhancement call")
	cmd.Flags().StringVar(&project, "project", "", "Record the result into a project")
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Wait instead of failing when rate limited")
	cmd.Flags().BoolVarP(&copyOut, "copy", "c", false, "Copy the enhanced prompt to the clipboard")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall request timeout")

	return cmd
}
