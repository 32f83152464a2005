package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/aicred/internal/assessment"
	"github.com/abhisek/aicred/internal/contentgen"
	"github.com/abhisek/aicred/internal/transcript"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Generate an assessment from learning material and take it",
	Long: "Generate questions from --text, --file or a YouTube --url, answer them " +
		"interactively and, on a pass, issue a credit certificate.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		text, err := assessmentSource(ctx, cmd)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		provider, err := newProvider(ctx, e)
		if err != nil {
			return err
		}
		gen := contentgen.New(provider, contentgen.DefaultConfig())
		if err := gen.CheckInput(text); err != nil {
			return err
		}

		fmt.Fprintln(e.out, "Generating assessment...")
		g, err := gen.Generate(ctx, text)
		if err != nil {
			return fmt.Errorf("generate assessment: %w", err)
		}

		a := assessment.NewAttempt(text)
		if err := a.Present(*g); err != nil {
			return err
		}

		p := newPrompter(e.in, e.out)
		passed, err := takeAssessment(a, p)
		if err != nil {
			return err
		}
		if !passed {
			threshold := float64(assessment.PassThreshold)
			fmt.Fprintf(e.out, "Not passed. %d%% is needed to earn credit.\n", int(threshold*100+0.5))
			return nil
		}

		info, err := identityFromFlags(cmd, p)
		if err != nil {
			return err
		}
		if err := a.CaptureIdentity(info); err != nil {
			return err
		}

		verified, err := verifyIdentity(cmd, e.out)
		if err != nil {
			return err
		}

		res, err := a.Finalize(verified)
		if err != nil {
			return err
		}
		res.TeamID, _ = cmd.Flags().GetString("team")
		if err := e.repo.SaveResult(ctx, *res); err != nil {
			return fmt.Errorf("save result: %w", err)
		}

		lo := res.LearningOutcome
		fmt.Fprintln(e.out)
		fmt.Fprintf(e.out, "Certificate: %s\n", res.CertificateID)
		fmt.Fprintf(e.out, "Issued to:   %s <%s>\n", res.UserName, res.UserInfo.Email)
		fmt.Fprintf(e.out, "Topic:       %s\n", res.Topic)
		fmt.Fprintf(e.out, "Credit:      %s AiCE points, %s CPD hours (%s)\n",
			formatNumber(lo.KIUAllocation), formatNumber(lo.CPDPoints), lo.AcademicLevel)
		if !res.Verified {
			fmt.Fprintln(e.out, "Identity:    not verified")
		}
		return nil
	},
}

// assessmentSource returns the learning text from exactly one of the source
// flags.
func assessmentSource(ctx context.Context, cmd *cobra.Command) (string, error) {
	text, _ := cmd.Flags().GetString("text")
	file, _ := cmd.Flags().GetString("file")
	url, _ := cmd.Flags().GetString("url")

	set := 0
	for _, v := range []string{text, file, url} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return "", errors.New("exactly one of --text, --file or --url is required")
	}

	switch {
	case file != "":
		return transcript.ReadFile(file)
	case url != "":
		fetcher := transcript.NewSearchAPIFetcher(appConfig.SearchAPIKey)
		t, err := fetcher.Fetch(ctx, url)
		if err != nil {
			return "", fmt.Errorf("fetch transcript: %w", err)
		}
		return t, nil
	}
	return text, nil
}

// takeAssessment presents the questions until the learner passes or stops
// retaking.
func takeAssessment(a *assessment.Attempt, p *prompter) (bool, error) {
	g := a.Generated()
	for {
		fmt.Fprintf(p.out, "\n%s\n", g.Topic)
		fmt.Fprintln(p.out, strings.Repeat("─", max(len(g.Topic), 20)))

		responses := make([]assessment.Response, 0, len(g.Questions))
		for i, q := range g.Questions {
			fmt.Fprintf(p.out, "\n%d. %s\n", i+1, q.Text)
			for j, opt := range q.Options {
				fmt.Fprintf(p.out, "   %s) %s\n", optionLetter(j), opt)
			}
			sel, err := p.choice("Answer: ", len(q.Options))
			if err != nil {
				return false, err
			}
			responses = append(responses, assessment.Response{QuestionID: q.ID, SelectedAnswer: sel})
		}

		score, passed, err := a.Submit(responses)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(p.out, "\nScore: %d%%\n", int(score*100+0.5))

		if passed {
			fmt.Fprintln(p.out, "Passed!")
			return true, nil
		}
		again, err := p.confirm("Retake the assessment?")
		if err != nil || !again {
			return false, err
		}
		if err := a.Retake(); err != nil {
			return false, err
		}
	}
}

func identityFromFlags(cmd *cobra.Command, p *prompter) (assessment.UserInfo, error) {
	first, _ := cmd.Flags().GetString("first")
	last, _ := cmd.Flags().GetString("last")
	email, _ := cmd.Flags().GetString("email")

	fmt.Fprintln(p.out, "\nCertificate details")
	var err error
	if first == "" {
		if first, err = p.required("First name: "); err != nil {
			return assessment.UserInfo{}, err
		}
	}
	if last == "" {
		if last, err = p.required("Last name: "); err != nil {
			return assessment.UserInfo{}, err
		}
	}
	if email == "" {
		if email, err = p.required("Email: "); err != nil {
			return assessment.UserInfo{}, err
		}
	}
	info := assessment.UserInfo{FirstName: first, LastName: last, Email: email}
	return info, assessment.ValidateUserInfo(info)
}

// verifyIdentity accepts the check when both a selfie and an ID document are
// supplied. Supplying neither skips it; supplying only one is an error.
func verifyIdentity(cmd *cobra.Command, out io.Writer) (bool, error) {
	selfie, _ := cmd.Flags().GetString("selfie")
	idDoc, _ := cmd.Flags().GetString("id-doc")

	if selfie == "" && idDoc == "" {
		fmt.Fprintln(out, "Identity verification skipped.")
		return false, nil
	}
	if selfie == "" || idDoc == "" {
		return false, errors.New("identity verification needs both --selfie and --id-doc")
	}
	for _, f := range []string{selfie, idDoc} {
		st, err := os.Stat(f)
		if err != nil {
			return false, fmt.Errorf("identity document: %w", err)
		}
		if st.IsDir() || st.Size() == 0 {
			return false, fmt.Errorf("identity document %s is empty", f)
		}
	}
	fmt.Fprintln(out, "Identity verified.")
	return true, nil
}

func formatNumber(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func init() {
	f := assessCmd.Flags()
	f.String("text", "", "Learning material as text")
	f.StringP("file", "f", "", "Read learning material from a .txt, .md, .csv or .xlsx file")
	f.StringP("url", "u", "", "YouTube video URL to fetch a transcript from")
	f.String("first", "", "First name for the certificate")
	f.String("last", "", "Last name for the certificate")
	f.String("email", "", "Email for the certificate")
	f.String("selfie", "", "Selfie image for identity verification")
	f.String("id-doc", "", "ID document image for identity verification")
	f.String("team", "", "Team ID the assessment was taken for")
}
