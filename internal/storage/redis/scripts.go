package redis

import "github.com/redis/go-redis/v9"

// createAccountScript inserts the account hash only if the key is absent.
// Returns 1 on insert, 0 if the username is taken.
var createAccountScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'password_hash', ARGV[1], 'credits', ARGV[2], 'created_at', ARGV[3])
return 1
`)

// debitScript decrements credits only when the balance is at least 1.
// Returns -1 for a missing account, 0 when the balance is exhausted, 1 on debit.
var debitScript = redis.NewScript(`
local credits = redis.call('HGET', KEYS[1], 'credits')
if not credits then
	return -1
end
if tonumber(credits) < 1 then
	return 0
end
redis.call('HINCRBY', KEYS[1], 'credits', -1)
return 1
`)

// addCreditsScript increments credits of an existing account and returns the new balance.
// ARGV[2] is the balance ceiling.
// Returns -1 for a missing account, -2 when the ceiling would be passed.
var addCreditsScript = redis.NewScript(`
local credits = redis.call('HGET', KEYS[1], 'credits')
if not credits then
	return -1
end
if tonumber(credits) + tonumber(ARGV[1]) > tonumber(ARGV[2]) then
	return -2
end
return redis.call('HINCRBY', KEYS[1], 'credits', ARGV[1])
`)
