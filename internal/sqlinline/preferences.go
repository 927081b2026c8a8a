package sqlinline

const QSelectAIPreferences = `--sql b5a500d2-090c-459f-a07d-1ed2634fe86d
select user_id, heygen_avatar_id, heygen_voice_id, updated_at
from ai_preferences
where user_id = $1::text;
`

const QUpsertAIPreferences = `--sql cd33dbf0-d485-4cb0-98cf-faf2291978d5
insert into ai_preferences (user_id, heygen_avatar_id, heygen_voice_id, updated_at)
values ($1::text, $2::text, $3::text, now())
on conflict (user_id) do update set
    heygen_avatar_id = excluded.heygen_avatar_id,
    heygen_voice_id = excluded.heygen_voice_id,
    updated_at = now()
returning user_id, heygen_avatar_id, heygen_voice_id, updated_at;
`
