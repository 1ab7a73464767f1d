package bump

import (
	"context"
	"io"

	gitSSH "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/marco79423/bumpbuild/pkg/util"
	"golang.org/x/xerrors"
)

type ctxKey string

// 準備所需要的 Context
func prepareContext(options *commandOptions, errWriter io.Writer) context.Context {
	ctx := context.Background()
	ctx = util.WithLogger(ctx, util.NewLogger(errWriter, options.Loud))
	ctx = context.WithValue(ctx, ctxKey("progress"), errWriter)
	return ctx
}

// 準備 tag 所需要的 Git Context
func prepareGitContext(ctx context.Context, options *commandOptions, filePath string) (context.Context, error) {
	// 只有推送時需要 git auth
	var gitAuth *gitSSH.PublicKeys
	if options.Push {
		var err error
		gitAuth, err = util.GetGitAuth(options.PrivateKeyFilePath, options.KeyFilePassword)
		if err != nil {
			return nil, xerrors.Errorf("準備 Context 失敗: %w", err)
		}
	}

	// 開啟 git repo
	gitRepo, err := util.NewGitRepo(filePath, gitAuth)
	if err != nil {
		return nil, xerrors.Errorf("準備 Context 失敗: %w", err)
	}
	ctx = context.WithValue(ctx, ctxKey("gitRepo"), gitRepo)

	return ctx, nil
}

func getCtxProgress(ctx context.Context) io.Writer {
	return ctx.Value(ctxKey("progress")).(io.Writer)
}

func getCtxGitRepo(ctx context.Context) util.IGitRepository {
	return ctx.Value(ctxKey("gitRepo")).(util.IGitRepository)
}
