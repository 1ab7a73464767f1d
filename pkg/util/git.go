package util

import (
	"errors"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	gitSSH "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"golang.org/x/crypto/ssh"
	"golang.org/x/xerrors"
)

type IGitRepository interface {
	CommitFile(filePath, message string, author Author) (plumbing.Hash, error)
	CreateTag(tagName string, hash plumbing.Hash) error
	TagExists(tagName string) (bool, error)
	PushBranchAndTag(progress io.Writer) error
}

// Author 是 commit 的作者
type Author struct {
	Name  string
	Email string
}

// NewGitRepo 開啟 filePath 所在的 Git Repository，會往上層尋找 .git
func NewGitRepo(filePath string, gitAuth *gitSSH.PublicKeys) (IGitRepository, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, xerrors.Errorf("取得 Git Repository 失敗: %w", err)
	}

	repository, err := git.PlainOpenWithOptions(filepath.Dir(absPath), &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, xerrors.Errorf("取得 Git Repository 失敗: %w", err)
	}

	return &gitRepository{
		repo:    repository,
		gitAuth: gitAuth,
	}, nil
}

func GetGitAuth(privateKeyFilePath, password string) (*gitSSH.PublicKeys, error) {
	publicKeys, err := gitSSH.NewPublicKeysFromFile("git", privateKeyFilePath, password)
	if err != nil {
		return nil, xerrors.Errorf("取得 Git Auth 失敗: %w", err)
	}

	publicKeys.HostKeyCallbackHelper = gitSSH.HostKeyCallbackHelper{
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	return publicKeys, nil
}

type gitRepository struct {
	repo    *git.Repository
	gitAuth *gitSSH.PublicKeys
}

func (gitRepo *gitRepository) CommitFile(filePath, message string, author Author) (plumbing.Hash, error) {
	w, err := gitRepo.repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, xerrors.Errorf("Git commit 失敗: %w", err)
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return plumbing.ZeroHash, xerrors.Errorf("Git commit 失敗: %w", err)
	}
	relPath, err := filepath.Rel(w.Filesystem.Root(), absPath)
	if err != nil {
		return plumbing.ZeroHash, xerrors.Errorf("Git commit 失敗: %w", err)
	}

	if _, err := w.Add(filepath.ToSlash(relPath)); err != nil {
		return plumbing.ZeroHash, xerrors.Errorf("Git add 失敗: %w", err)
	}

	hash, err := w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  author.Name,
			Email: author.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return plumbing.ZeroHash, xerrors.Errorf("Git commit 失敗: %w", err)
	}

	return hash, nil
}

func (gitRepo *gitRepository) CreateTag(tagName string, hash plumbing.Hash) error {
	refName := plumbing.ReferenceName("refs/tags/" + tagName)
	ref := plumbing.NewHashReference(refName, hash)

	err := gitRepo.repo.Storer.SetReference(ref)
	if err != nil {
		return xerrors.Errorf("建立 Git tag 失敗: %w", err)
	}

	return nil
}

func (gitRepo *gitRepository) TagExists(tagName string) (bool, error) {
	tags, err := gitRepo.repo.Tags()
	if err != nil {
		return false, xerrors.Errorf("檢查 Git tag 是否存在失敗: %w", err)
	}

	existed := false
	for {
		tagRef, err := tags.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return false, xerrors.Errorf("檢查 Git tag 是否存在失敗: %w", err)
		}

		if tagRef.Name() == plumbing.ReferenceName("refs/tags/"+tagName) {
			existed = true
			break
		}
	}

	return existed, nil
}

func (gitRepo *gitRepository) PushBranchAndTag(progress io.Writer) error {
	err := gitRepo.repo.Push(&git.PushOptions{
		RemoteName: "origin",
		Progress:   progress,
		RefSpecs: []config.RefSpec{
			"refs/heads/*:refs/heads/*",
			"refs/tags/*:refs/tags/*",
		},
		Auth: gitRepo.gitAuth,
	})
	if err != nil {
		if err == git.NoErrAlreadyUpToDate {
			log.Print("origin remote was up to date, no push done")
			return nil
		}
		return xerrors.Errorf("Git push 失敗: %w", err)
	}

	return nil
}
