package sqlinline

const QUpsertProfile = `--sql 6db6d9a0-ef7f-4c68-be48-4d13e7c56388
insert into profiles (user_id, full_name, profession, audience, tone, created_at, updated_at)
values ($1::text, $2::text, $3::text, $4::text, $5::text, now(), now())
on conflict (user_id) do update set
    full_name = excluded.full_name,
    profession = excluded.profession,
    audience = excluded.audience,
    tone = excluded.tone,
    updated_at = now()
returning user_id, full_name, profession, audience, tone, created_at, updated_at;
`

// Empty arguments keep the stored value.
const QPatchProfile = `--sql 59f50243-13e4-49f1-bd9a-8c11e25f36af
update profiles set
    full_name = coalesce(nullif($2::text, ''), full_name),
    profession = coalesce(nullif($3::text, ''), profession),
    audience = coalesce(nullif($4::text, ''), audience),
    tone = coalesce(nullif($5::text, ''), tone),
    updated_at = now()
where user_id = $1::text
returning user_id, full_name, profession, audience, tone, created_at, updated_at;
`

const QSelectProfile = `--sql f7a6ff77-e603-4c63-9bd0-10446c1d5d76
select user_id, full_name, profession, audience, tone, created_at, updated_at
from profiles
where user_id = $1::text;
`
