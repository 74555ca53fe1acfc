package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

func (r repo) addWithNextPosition(ctx context.Context, pendingKey, historyKey, member string) (int, error) {
	res, err := r.rc.EvalSha(ctx, r.nextPositionScript, []string{pendingKey, historyKey}, member).Int()
	if err != nil {
		return 0, err
	}

	return res, nil
}

func (r repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}
