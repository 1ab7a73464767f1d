package bump

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/marco79423/bumpbuild/pkg/buildno"
	"github.com/marco79423/bumpbuild/pkg/model"
	"github.com/marco79423/bumpbuild/pkg/util"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"
)

// Version 是這個工具本身的版號
const Version = "0.1a"

var (
	errFileRequired     = errors.New("file argument required")
	errTooManyArguments = errors.New("unrecognized arguments")
	errHelpShown        = errors.New("help shown")
)

type commandOptions struct {
	FilePath           string
	Loud               bool
	Major              bool
	Upset              bool
	Interactive        bool
	Atomic             bool
	Tag                bool
	Push               bool
	PrivateKeyFilePath string
	KeyFilePassword    string
	Author             util.Author
}

// NewApp 建立 bumpbuild 的命令列程式
func NewApp(stdout, stderr io.Writer, prompter Prompter) *cli.App {
	app := cli.NewApp()
	app.Name = "bumpbuild"
	app.Usage = "更新原始碼中 BUILD_NO 的 build number"
	app.ArgsUsage = "file"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.UseShortOptionHandling = true
	app.HideHelp = true
	app.HideHelpCommand = true
	app.Flags = flags()
	app.OnUsageError = func(c *cli.Context, err error, isSubcommand bool) error {
		fmt.Fprintf(c.App.ErrWriter, "%s: error: %v\n", c.App.Name, err)
		return err
	}
	app.Action = func(c *cli.Context) error {
		options := &commandOptions{
			FilePath:           c.Args().First(),
			Loud:               c.Bool("loud"),
			Major:              c.Bool("major"),
			Upset:              c.Bool("upset"),
			Interactive:        c.Bool("interactive"),
			Atomic:             c.Bool("atomic"),
			Tag:                c.Bool("tag"),
			Push:               c.Bool("push"),
			PrivateKeyFilePath: c.Path("keyfile"),
			KeyFilePassword:    c.String("keyfile-password"),
			Author: util.Author{
				Name:  c.String("author-name"),
				Email: c.String("author-email"),
			},
		}

		if c.Bool("help") {
			if err := cli.ShowAppHelp(c); err != nil {
				return xerrors.Errorf("顯示說明失敗: %w", err)
			}
			return errHelpShown
		}

		if c.Args().Len() > 1 {
			fmt.Fprintf(c.App.ErrWriter, "%s: error: %v: %s\n", c.App.Name, errTooManyArguments, strings.Join(c.Args().Tail(), " "))
			return xerrors.Errorf("程式執行失敗: %w", errTooManyArguments)
		}

		if c.Bool("version") {
			fmt.Fprintf(c.App.Writer, "Project generator version %s\n", Version)
			return nil
		}

		if options.FilePath == "" {
			return xerrors.Errorf("程式執行失敗: %w", errFileRequired)
		}

		mode := model.ModeFromFlags(options.Major, options.Upset)
		if options.Interactive && !options.Major && !options.Upset {
			var err error
			mode, err = promptMode(c.App.Writer, prompter)
			if err != nil {
				return xerrors.Errorf("程式執行失敗: %w", err)
			}
		}

		ctx := prepareContext(options, c.App.ErrWriter)
		bump(ctx, c.App.Writer, options, model.NewRequest(options.FilePath, mode))
		return nil
	}
	return app
}

// Run 執行程式，flag 可以出現在檔案之前或之後
//
// 參數解析失敗或顯示說明後只會再印出一行空白行。
func Run(app *cli.App, args []string) {
	if err := app.Run(reorderArgs(app.Flags, args)); err != nil {
		fmt.Fprintln(app.Writer)
	}
}

func flags() []cli.Flag {
	homeDir, _ := os.UserHomeDir()

	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "help",
			Aliases: []string{"h"},
			Usage:   "show this help message and exit",
		},
		&cli.BoolFlag{
			Name:    "version",
			Aliases: []string{"v"},
			Usage:   "Report the script version number.",
		},
		&cli.BoolFlag{
			Name:    "loud",
			Aliases: []string{"l"},
			Usage:   "Verbosely report actions",
		},
		&cli.BoolFlag{
			Name:    "major",
			Aliases: []string{"m"},
			Usage:   "Update the major build number",
		},
		&cli.BoolFlag{
			Name:    "upset",
			Aliases: []string{"u"},
			Usage:   "Update the major build number and reset the minor number",
		},
		&cli.BoolFlag{
			Name:    "interactive",
			Aliases: []string{"i"},
			Usage:   "Ask for the update mode when neither -m nor -u is given",
		},
		&cli.BoolFlag{
			Name:  "atomic",
			Usage: "Write to a temporary file and rename it over the source file",
		},
		&cli.BoolFlag{
			Name:    "tag",
			Aliases: []string{"t"},
			Usage:   "Commit the updated file and tag the commit with the new build number",
		},
		&cli.BoolFlag{
			Name:  "push",
			Usage: "Push branches and tags to origin after tagging",
		},
		&cli.PathFlag{
			Name:    "keyfile",
			Usage:   "Private Key 檔案路徑",
			Value:   filepath.Join(homeDir, ".ssh", "id_rsa"),
			EnvVars: []string{"BUMPBUILD_KEYFILE"},
		},
		&cli.StringFlag{
			Name:    "keyfile-password",
			Usage:   "Private Key 的密碼",
			EnvVars: []string{"BUMPBUILD_KEYFILE_PASSWORD"},
		},
		&cli.StringFlag{
			Name:  "author-name",
			Usage: "Commit 作者名稱",
			Value: "bumpbuild",
		},
		&cli.StringFlag{
			Name:  "author-email",
			Usage: "Commit 作者信箱",
			Value: "bumpbuild@localhost",
		},
	}
}

// 更新檔案，失敗時不會中止程式
func bump(ctx context.Context, w io.Writer, options *commandOptions, req model.Request) {
	logger := util.LoggerFromContext(ctx)

	result, err := buildno.UpdateFile(ctx, req.FilePath, buildno.Options{
		UpdateMajor: req.UpdateMajor,
		ResetMinor:  req.ResetMinor,
		Atomic:      options.Atomic,
	})
	if err != nil {
		if errors.Is(err, buildno.ErrSourceNotFound) {
			fmt.Fprintln(w, buildno.NotFoundMessage(req.FilePath))
		}
		logger.Debug("沒有更新 build number", "error", err)
		return
	}

	if !options.Tag {
		return
	}
	if err := tagBuild(ctx, options, result); err != nil {
		fmt.Fprintf(w, "Could not tag build:%v\n", err)
	}
}

// 建立 commit 與 tag
func tagBuild(ctx context.Context, options *commandOptions, result buildno.Result) error {
	ctx, err := prepareGitContext(ctx, options, result.Path)
	if err != nil {
		return xerrors.Errorf("建立 tag 失敗: %w", err)
	}
	logger := util.LoggerFromContext(ctx)
	gitRepo := getCtxGitRepo(ctx)

	tagName := result.NewVersion.String()
	existed, err := gitRepo.TagExists(tagName)
	if err != nil {
		return xerrors.Errorf("建立 tag 失敗: %w", err)
	}
	if existed {
		return xerrors.Errorf("建立 tag 失敗: Tag %s 存在", tagName)
	}

	hash, err := gitRepo.CommitFile(result.Path, fmt.Sprintf("Bump build number to %s", tagName), options.Author)
	if err != nil {
		return xerrors.Errorf("建立 tag 失敗: %w", err)
	}
	if err := gitRepo.CreateTag(tagName, hash); err != nil {
		return xerrors.Errorf("建立 tag 失敗: %w", err)
	}
	logger.Debug("建立 tag", "tag", tagName, "commit", hash.String())

	if !options.Push {
		return nil
	}
	if err := gitRepo.PushBranchAndTag(getCtxProgress(ctx)); err != nil {
		return xerrors.Errorf("推送 tag 失敗: %w", err)
	}
	return nil
}
