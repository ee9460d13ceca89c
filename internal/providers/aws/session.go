package aws

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/aws-sdk-go-v2/service/textract"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
	"github.com/yungbote/mrkr-backend/internal/utils"
)

const (
	roleSessionName = "MrkrSession"

	clientTimeout    = 10 * time.Second
	maxRetryAttempts = 3
	retryBackoff     = 1 * time.Second
)

type assumeRoleAPI interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
}

type temporaryCredentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Expiration      time.Time
}

// Session caches assumed-role temporary credentials per (account, role) and
// vends service clients backed by them. Refresh is guarded by a mutex with a
// still-valid re-check after acquiring the lock; a racing refresh is harmless
// because credentials from the same role are interchangeable.
type Session struct {
	log *logger.Logger

	accessKeyID     string
	secretAccessKey string
	region          string
	accountID       string
	roleName        string

	mu    sync.Mutex
	creds *temporaryCredentials

	stsClient assumeRoleAPI
	now       func() time.Time
}

// NewSession resolves every {{ENV_VAR}} placeholder in the config before any
// network use; a missing variable fails here with a config_resolution error.
func NewSession(cfg domain.AwsConfig, log *logger.Logger) (*Session, error) {
	sessionLog := log.With("provider", "AwsSession")

	resolved := make([]string, 5)
	for i, field := range []string{
		cfg.AwsAccessKeyID,
		cfg.AwsSecretAccessKey,
		cfg.AwsRegionName,
		cfg.AwsAccountID,
		cfg.AwsRoleName,
	} {
		value, err := utils.ResolveString(field)
		if err != nil {
			return nil, domain.NewError(domain.ErrorCodeConfigResolution, "resolve aws config", err)
		}
		resolved[i] = value
	}

	return &Session{
		log:             sessionLog,
		accessKeyID:     resolved[0],
		secretAccessKey: resolved[1],
		region:          resolved[2],
		accountID:       resolved[3],
		roleName:        resolved[4],
		now:             time.Now,
	}, nil
}

func (s *Session) baseConfig(ctx context.Context) (awssdk.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.accessKeyID, s.secretAccessKey, ""),
		),
		awsconfig.WithHTTPClient(&http.Client{Timeout: clientTimeout}),
		awsconfig.WithRetryMaxAttempts(maxRetryAttempts),
	)
}

// refreshCredentials fetches new temporary credentials when none are cached
// or the cached ones expired.
func (s *Session) refreshCredentials(ctx context.Context) (*temporaryCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.creds != nil && s.creds.Expiration.After(s.now().UTC()) {
		return s.creds, nil
	}

	s.log.Debug("Fetching temporary AWS credentials...")

	if s.stsClient == nil {
		baseCfg, err := s.baseConfig(ctx)
		if err != nil {
			return nil, domain.NewError(domain.ErrorCodeAuth, "load aws config", err)
		}
		s.stsClient = sts.NewFromConfig(baseCfg)
	}

	roleArn := fmt.Sprintf("arn:aws:iam::%s:role/%s", s.accountID, s.roleName)

	var output *sts.AssumeRoleOutput
	err := retry.Do(
		func() error {
			var assumeErr error
			output, assumeErr = s.stsClient.AssumeRole(ctx, &sts.AssumeRoleInput{
				RoleArn:         awssdk.String(roleArn),
				RoleSessionName: awssdk.String(roleSessionName),
			})
			return assumeErr
		},
		retry.Context(ctx),
		retry.Attempts(maxRetryAttempts),
		retry.Delay(retryBackoff),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeAuth, fmt.Sprintf("assume role %s", roleArn), err)
	}

	result := output.Credentials
	s.creds = &temporaryCredentials{
		AccessKeyID:     awssdk.ToString(result.AccessKeyId),
		SecretAccessKey: awssdk.ToString(result.SecretAccessKey),
		SessionToken:    awssdk.ToString(result.SessionToken),
		Expiration:      awssdk.ToTime(result.Expiration),
	}

	s.log.Debug("Temporary AWS credentials received", "expiration", s.creds.Expiration)
	return s.creds, nil
}

func (s *Session) clientConfig(ctx context.Context) (awssdk.Config, error) {
	creds, err := s.refreshCredentials(ctx)
	if err != nil {
		return awssdk.Config{}, err
	}
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken,
			),
		),
		awsconfig.WithHTTPClient(&http.Client{Timeout: clientTimeout}),
		awsconfig.WithRetryMaxAttempts(maxRetryAttempts),
	)
}

// S3Client vends an S3 client backed by current temporary credentials.
func (s *Session) S3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := s.clientConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}

// TextractClient vends a Textract client backed by current temporary
// credentials.
func (s *Session) TextractClient(ctx context.Context) (*textract.Client, error) {
	cfg, err := s.clientConfig(ctx)
	if err != nil {
		return nil, err
	}
	return textract.NewFromConfig(cfg), nil
}
